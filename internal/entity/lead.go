package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a stored job posting enriched with the contacts discovered for its employer.
type Lead struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	JobTitle     string    `json:"job_title"`
	JobDesc      string    `json:"job_desc"`
	JobLink      string    `json:"job_link"`
	Emails       []string  `json:"emails"`
	PhoneNumbers []string  `json:"phone_numbers"`
	Websites     []string  `json:"websites"`
	SocialLinks  []string  `json:"social_links"`
	Keywords     []string  `json:"keywords"`
	Tags         []string  `json:"tags"`
}

// FeedItem is one job posting parsed from the RSS source. Link is its unique key.
type FeedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}
