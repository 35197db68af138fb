package domain

import "time"

// Client is a CRM client record. PK: client_id, GSI: company_id-index.
type Client struct {
	ClientID  string    `json:"id" dynamodbav:"client_id"`
	CompanyID string    `json:"company_id" dynamodbav:"company_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     *string   `json:"email" dynamodbav:"email"`
	Phone     *string   `json:"phone" dynamodbav:"phone"`
	Address   *string   `json:"address" dynamodbav:"address"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
