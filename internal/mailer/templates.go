package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ankit723/Dream-Definers/internal/mailq/domain"
)

// Branding carries the site-level values templated into every email.
type Branding struct {
	SiteName     string
	SiteURL      string
	ContactEmail string
	ContactPhone string
	Address      string
}

// Renderer resolves a queued job into a concrete subject and HTML body. A
// job whose type maps to a known template family is re-rendered from its
// metadata; anything else falls back to the raw body stored at enqueue
// time.
type Renderer struct {
	branding  Branding
	templates *template.Template
}

// NewRenderer parses the template family once up front.
func NewRenderer(branding Branding) (*Renderer, error) {
	tmpl, err := template.New("emails").
		Funcs(template.FuncMap{"nl2br": nl2br}).
		Parse(emailTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{branding: branding, templates: tmpl}, nil
}

// Render resolves the message for a job. The returned subject replaces the
// stored one for templated types, matching what producers enqueue.
func (r *Renderer) Render(job *domain.EmailJob) (subject, html string, err error) {
	switch job.Type {
	case domain.TypeContact, domain.TypeContactAdmin,
		domain.TypeConsultancy, domain.TypeConsultancyAdmin,
		domain.TypeBlogNotification:
	default:
		return job.Subject, job.Body, nil
	}

	md, err := domain.DecodeMetadata(job.Type, job.Metadata)
	if err != nil {
		return "", "", err
	}

	switch v := md.(type) {
	case domain.ContactMetadata:
		if v.Name == "" {
			v.Name = "User"
		}
		if job.Type == domain.TypeContactAdmin {
			return r.render("contact_admin",
				fmt.Sprintf("New Contact Form Submission: %s", v.Subject), v)
		}
		return r.render("contact",
			fmt.Sprintf("Thank you for contacting %s", r.branding.SiteName), v)

	case domain.ConsultancyMetadata:
		if v.Name == "" {
			v.Name = "User"
		}
		if job.Type == domain.TypeConsultancyAdmin {
			return r.render("consultancy_admin",
				fmt.Sprintf("New Free Consultancy Request: %s", v.Program), v)
		}
		return r.render("consultancy",
			fmt.Sprintf("Your Free Consultancy Request - %s", r.branding.SiteName), v)

	case domain.BlogMetadata:
		if v.SubscriberName == "" {
			v.SubscriberName = "Subscriber"
		}
		return r.render("blog_notification",
			fmt.Sprintf("New Post: %s", v.BlogTitle), v)

	default:
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnknownEmailType, job.Type)
	}
}

func (r *Renderer) render(name, subject string, md any) (string, string, error) {
	data := struct {
		Branding Branding
		Year     int
		Meta     any
	}{
		Branding: r.branding,
		Year:     time.Now().Year(),
		Meta:     md,
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", name, err)
	}
	return subject, buf.String(), nil
}

// nl2br preserves user-entered line breaks inside HTML bodies.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

const emailTemplates = `
{{define "header"}}
<div style="background-color:#1e3a8a;padding:30px;text-align:center;border-radius:10px 10px 0 0;">
  <h1 style="color:#ffffff;margin:0;">{{.Branding.SiteName}}</h1>
  <p style="color:#e0e7ff;margin:10px 0 0 0;">Training Academy</p>
</div>
{{end}}

{{define "footer"}}
<div style="text-align:center;padding:20px;color:#6b7280;font-size:12px;">
  <p>{{.Branding.Address}}</p>
  <p>&copy; {{.Year}} {{.Branding.SiteName}} Training Academy. All rights reserved.</p>
</div>
{{end}}

{{define "contact"}}
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    {{template "header" .}}
    <div style="background-color:#f9fafb;padding:30px;border-radius:0 0 10px 10px;">
      <h2 style="color:#1e3a8a;margin-top:0;">Thank You for Contacting Us!</h2>
      <p>Dear {{.Meta.Name}},</p>
      <p>We have received your inquiry regarding: <strong>{{.Meta.Subject}}</strong></p>
      <p>Our team will review your message and get back to you within 24-48 hours.</p>
      <p>If you have any urgent questions, feel free to contact us at:</p>
      <p>Email: {{.Branding.ContactEmail}}<br>Phone: {{.Branding.ContactPhone}}</p>
      <p style="margin-top:30px;">Best regards,<br><strong>The {{.Branding.SiteName}} Team</strong></p>
    </div>
    {{template "footer" .}}
  </body>
</html>
{{end}}

{{define "contact_admin"}}
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    <h2 style="color:#1e3a8a;">New Contact Form Submission</h2>
    <div style="background-color:#f9fafb;padding:20px;border-radius:8px;margin:20px 0;">
      <p><strong>Name:</strong> {{.Meta.Name}}</p>
      <p><strong>Email:</strong> {{.Meta.Email}}</p>
      <p><strong>Phone:</strong> {{.Meta.Phone}}</p>
      <p><strong>Subject:</strong> {{.Meta.Subject}}</p>
      <p><strong>Message:</strong></p>
      <div style="background-color:#ffffff;padding:15px;border-left:4px solid #1e3a8a;margin-top:10px;">{{nl2br .Meta.Message}}</div>
    </div>
  </body>
</html>
{{end}}

{{define "consultancy"}}
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    {{template "header" .}}
    <div style="background-color:#f9fafb;padding:30px;border-radius:0 0 10px 10px;">
      <h2 style="color:#1e3a8a;margin-top:0;">Thank You for Your Interest!</h2>
      <p>Dear {{.Meta.Name}},</p>
      <p>We have received your request for a free consultation regarding our <strong>{{.Meta.Program}}</strong> program.</p>
      <p>One of our counselors will reach out shortly to schedule your session.</p>
      <p>If you have any urgent questions, contact us at:</p>
      <p>Email: {{.Branding.ContactEmail}}<br>Phone: {{.Branding.ContactPhone}}</p>
      <p style="margin-top:30px;">Best regards,<br><strong>The {{.Branding.SiteName}} Team</strong></p>
    </div>
    {{template "footer" .}}
  </body>
</html>
{{end}}

{{define "consultancy_admin"}}
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    <h2 style="color:#1e3a8a;">New Free Consultancy Request</h2>
    <div style="background-color:#f9fafb;padding:20px;border-radius:8px;margin:20px 0;">
      <p><strong>Name:</strong> {{.Meta.Name}}</p>
      <p><strong>Email:</strong> {{.Meta.Email}}</p>
      <p><strong>Phone:</strong> {{.Meta.Phone}}</p>
      <p><strong>Program:</strong> {{.Meta.Program}}</p>
      <p><strong>Message:</strong></p>
      <div style="background-color:#ffffff;padding:15px;border-left:4px solid #1e3a8a;margin-top:10px;">{{nl2br .Meta.Message}}</div>
    </div>
  </body>
</html>
{{end}}

{{define "blog_notification"}}
<!DOCTYPE html>
<html>
  <body style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    {{template "header" .}}
    <div style="background-color:#f9fafb;padding:30px;border-radius:0 0 10px 10px;">
      <h2 style="color:#1e3a8a;margin-top:0;">{{.Meta.BlogTitle}}</h2>
      <p>Hi {{.Meta.SubscriberName}},</p>
      <p>We just published a new post on our blog:</p>
      {{if .Meta.BlogCoverImage}}<img src="{{.Meta.BlogCoverImage}}" alt="{{.Meta.BlogTitle}}" style="max-width:100%;border-radius:8px;">{{end}}
      <p>{{.Meta.BlogExcerpt}}</p>
      <p>
        <a href="{{.Branding.SiteURL}}/blogs/{{.Meta.BlogSlug}}"
           style="display:inline-block;background-color:#1e3a8a;color:#ffffff;padding:12px 24px;border-radius:8px;text-decoration:none;">
          Read the full post
        </a>
      </p>
    </div>
    {{template "footer" .}}
  </body>
</html>
{{end}}
`
