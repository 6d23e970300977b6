package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex" json:"slug"` // slug cho URL thân thiện
	Description string     `gorm:"type:text" json:"description"`
	Thumbnail   string     `gorm:"type:text" json:"thumbnail"`
	IsPaid      bool       `gorm:"default:false" json:"is_paid"`
	Price       string     `gorm:"size:50" json:"price"`                            // chỉ để hiển thị, không xử lý thanh toán
	Status      string     `gorm:"type:VARCHAR(20);default:'draft'" json:"status"`  // draft | published
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	User        *User      `gorm:"foreignKey:CreatedBy" json:"user,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Videos []CourseVideo `gorm:"foreignKey:CourseID" json:"videos"`
	PDFs   []CoursePDF   `gorm:"foreignKey:CourseID" json:"pdfs"`
}
