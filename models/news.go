package models

import "time"

type News struct {
	ID             int        `json:"id"`
	OrganisationID int        `json:"organisation_id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	ImageURL       *string    `json:"image_url,omitempty"`
	AuthorID       int        `json:"author_id"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}
