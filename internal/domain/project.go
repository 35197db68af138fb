package domain

import "time"

// Project is a CRM project record. PK: project_id, GSI: company_id-index.
type Project struct {
	ProjectID   string    `json:"id" dynamodbav:"project_id"`
	CompanyID   string    `json:"company_id" dynamodbav:"company_id"`
	ClientID    *string   `json:"client_id" dynamodbav:"client_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description *string   `json:"description" dynamodbav:"description"`
	Status      string    `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
