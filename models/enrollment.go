package models

import (
	"time"

	"github.com/google/uuid"
)

// Khóa chính kép (user_id, course_id): mỗi cặp chỉ có tối đa một dòng,
// nên thao tác ghi đăng ký là "thêm nếu chưa có" ở mức database.
// Không có unenroll: đã đăng ký là giữ quyền truy cập vĩnh viễn.
type Enrollment struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Course Course `gorm:"constraint:OnDelete:CASCADE;" json:"course,omitempty"`
}
