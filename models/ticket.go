package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

type SupportTicket struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null" json:"user_id"`
	User      User         `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Subject   string       `gorm:"size:255;not null" json:"subject"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	Status    TicketStatus `gorm:"type:varchar(20);default:'open'" json:"status"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Replies []TicketReply `gorm:"foreignKey:TicketID" json:"replies,omitempty"`
}

type TicketReply struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketID  uuid.UUID     `gorm:"type:uuid;not null" json:"ticket_id"`
	Ticket    SupportTicket `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	User      User          `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	IsStaff   bool          `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
