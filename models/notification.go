package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"user_id"` // người nhận
	Title   string    `gorm:"size:255;not null" json:"title"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Type    string    `gorm:"size:50" json:"type"` // ticket_reply | enrollment | course
	IsRead  bool      `gorm:"default:false" json:"is_read"`

	CourseID   *uuid.UUID `gorm:"type:uuid" json:"course_id,omitempty"` // ID khóa học liên quan
	TicketID   *uuid.UUID `gorm:"type:uuid" json:"ticket_id,omitempty"` // ID ticket liên quan (nếu có)
	RelatedURL *string    `gorm:"size:500" json:"related_url,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}
