package models

import (
	"time"

	"github.com/google/uuid"
)

type CoursePDF struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Course    Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	PageCount int       `json:"page_count"`
	FileSize  int64     `json:"file_size"` // bytes
	SortOrder int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
