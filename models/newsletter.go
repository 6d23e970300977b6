package models

import (
	"time"

	"github.com/google/uuid"
)

type NewsletterSubscriber struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	SubscribedAt   time.Time  `gorm:"autoCreateTime" json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}
