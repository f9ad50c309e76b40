// Package model defines domain entities for the application.
package model

// StatusApplied is the status the dashboard treats as an active application.
// Statuses are free-form strings; this is the only one with special meaning.
const StatusApplied = "Applied"

// Application represents one job-application record owned by a user.
//
// CreatedAt is kept as the raw string delivered by the record store. Its
// format is loose (the store emits several timestamp shapes), so parsing to
// an instant happens only where comparisons are needed.
type Application struct {
	ID          string `json:"id,omitempty"`
	UID         string `json:"uid"`
	JobName     string `json:"job_name"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	Link        string `json:"link"`
	Salary      string `json:"salary"`
	CreatedAt   string `json:"created_at,omitempty"`
}
