package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseVideo struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Course      Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	DurationSec int       `json:"duration_sec"`
	SortOrder   int       `gorm:"column:sort_order;default:1" json:"sort_order"` // Thứ tự hiển thị, không dựa vào vị trí mảng
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
