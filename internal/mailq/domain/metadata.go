package domain

import (
	"encoding/json"
	"fmt"
)

// ContactMetadata carries the contact-form fields a contact or
// contact_admin job renders from.
type ContactMetadata struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ConsultancyMetadata carries the consultancy-request fields a consultancy
// or consultancy_admin job renders from.
type ConsultancyMetadata struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Program string `json:"program"`
	Message string `json:"message"`
}

// BlogMetadata carries the post fields a blog_notification job renders
// from, one job per subscriber.
type BlogMetadata struct {
	SubscriberName string `json:"subscriberName"`
	BlogTitle      string `json:"blogTitle"`
	BlogExcerpt    string `json:"blogExcerpt"`
	BlogSlug       string `json:"blogSlug"`
	BlogCoverImage string `json:"blogCoverImage,omitempty"`
}

// EncodeMetadata serializes a metadata variant for storage on a job.
func EncodeMetadata(md any) (string, error) {
	raw, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}

// DecodeMetadata parses serialized metadata into the typed shape for the
// given email type. An empty payload decodes to the zero value so jobs
// enqueued without metadata still render with template defaults.
func DecodeMetadata(emailType, raw string) (any, error) {
	if raw == "" {
		raw = "{}"
	}
	switch emailType {
	case TypeContact, TypeContactAdmin:
		var md ContactMetadata
		if err := json.Unmarshal([]byte(raw), &md); err != nil {
			return nil, fmt.Errorf("decode contact metadata: %w", err)
		}
		return md, nil
	case TypeConsultancy, TypeConsultancyAdmin:
		var md ConsultancyMetadata
		if err := json.Unmarshal([]byte(raw), &md); err != nil {
			return nil, fmt.Errorf("decode consultancy metadata: %w", err)
		}
		return md, nil
	case TypeBlogNotification:
		var md BlogMetadata
		if err := json.Unmarshal([]byte(raw), &md); err != nil {
			return nil, fmt.Errorf("decode blog metadata: %w", err)
		}
		return md, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmailType, emailType)
	}
}
