package domain

import "time"

// Inspection statuses. The transition is monotonic: pending -> completed.
const (
	InspectionStatusPending   = "pending"
	InspectionStatusCompleted = "completed"
)

// InspectionLinkTTL is how long an inspection link stays usable after issuance.
const InspectionLinkTTL = 14 * 24 * time.Hour

// InspectionVideo is the durable record behind an inspection capability link.
// PK: inspection_id, with a token-index GSI for lookups by token.
// Rows are never deleted; completed and expired records are retained for audit.
type InspectionVideo struct {
	InspectionID  string     `json:"id" dynamodbav:"inspection_id"`
	Token         string     `json:"token" dynamodbav:"token"`
	ClientID      string     `json:"client_id" dynamodbav:"client_id"`
	CompanyID     string     `json:"company_id" dynamodbav:"company_id"`
	ProjectID     *string    `json:"project_id" dynamodbav:"project_id"`
	ClientName    string     `json:"client_name" dynamodbav:"client_name"`
	ClientEmail   *string    `json:"client_email" dynamodbav:"client_email"`
	Notes         *string    `json:"notes" dynamodbav:"notes"`
	Status        string     `json:"status" dynamodbav:"status"`
	VideoKey      *string    `json:"video_key" dynamodbav:"video_key"`
	VideoDuration *float64   `json:"video_duration" dynamodbav:"video_duration"`
	VideoSize     *int64     `json:"video_size" dynamodbav:"video_size"`
	CreatedAt     time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at" dynamodbav:"expires_at"`
	CompletedAt   *time.Time `json:"completed_at" dynamodbav:"completed_at"`
}

// Expired reports whether the link is past its expiry at the given instant.
// Expiry depends only on CreatedAt, never on status.
func (i *InspectionVideo) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
