package model

import (
	"time"

	"github.com/lib/pq"
)

// Event domain object defining a community event
// swagger:model
type Event struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	Title               string         `gorm:"not null" json:"title"`
	Slug                string         `gorm:"uniqueIndex" json:"slug"`
	Description         string         `gorm:"not null" json:"description"`
	EventDate           time.Time      `gorm:"type:date;not null;index" json:"eventDate"`
	EventTime           string         `json:"eventTime,omitempty"`
	LocationDescription string         `json:"locationDescription,omitempty"`
	OrganizerName       string         `json:"organizerName"`
	Category            string         `gorm:"index" json:"category"`
	Tags                pq.StringArray `gorm:"type:text[]" json:"tags"`
	WebsiteUrl          string         `json:"websiteUrl,omitempty"`
	UserID              uint           `gorm:"not null;index" json:"userId"`
	User                *User          `json:"-"`
}

// UserSavedEvent links a user to an event they saved. There is deliberately no foreign key
// constraint on EventID so rows can outlive their event and are filtered out on read.
type UserSavedEvent struct {
	UserID  uint      `gorm:"primaryKey" json:"userId"`
	EventID uint      `gorm:"primaryKey" json:"eventId"`
	SavedAt time.Time `gorm:"autoCreateTime" json:"savedAt"`
}
