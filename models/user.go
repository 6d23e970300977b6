package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"   // Quản trị hệ thống
	RoleLecturer UserRole = "teacher" // Giảng viên (quản trị nội dung)
	RoleUser     UserRole = "student" // Học viên (người dùng)
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Status    *bool     `gorm:"default:true" json:"status"` // false: tài khoản bị tạm khóa
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Enrollments []Enrollment    `json:"enrollments,omitempty"`
	Tickets     []SupportTicket `json:"tickets,omitempty"`
}
