package entity

import "time"

// EmailLog records an address that was successfully contacted for a job posting.
type EmailLog struct {
	JobLink   string    `json:"job_link"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
