package dto

import "github.com/trackr/trackr/internal/model"

// CreateApplicationRequest is the body for creating a record.
// The store assigns id and created_at; uid names the owner.
type CreateApplicationRequest struct {
	JobName     string `json:"job_name" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Link        string `json:"link"`
	Salary      string `json:"salary"`
	UID         string `json:"uid" validate:"required,uuid"`
}

// UpdateApplicationRequest is the body for overwriting a record.
// The path id wins over any id in the body.
type UpdateApplicationRequest struct {
	JobName     string `json:"job_name" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Link        string `json:"link"`
	Salary      string `json:"salary"`
	UID         string `json:"uid" validate:"required,uuid"`
	ID          string `json:"id"`
}

// ApplicationsResponse wraps affected rows plus a confirmation message.
type ApplicationsResponse struct {
	Data    []model.Application `json:"data"`
	Message string              `json:"message"`
}

// ToModel converts a create request to the domain record.
func (r CreateApplicationRequest) ToModel() model.Application {
	return model.Application{
		JobName:     r.JobName,
		CompanyName: r.CompanyName,
		Status:      r.Status,
		Link:        r.Link,
		Salary:      r.Salary,
		UID:         r.UID,
	}
}

// ToModel converts an update request to the domain record.
func (r UpdateApplicationRequest) ToModel() model.Application {
	return model.Application{
		ID:          r.ID,
		JobName:     r.JobName,
		CompanyName: r.CompanyName,
		Status:      r.Status,
		Link:        r.Link,
		Salary:      r.Salary,
		UID:         r.UID,
	}
}
