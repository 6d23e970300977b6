package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/e-learning-backend/models"
)

// GormEnrollmentStore là EnrollmentStore chạy trên PostgreSQL
type GormEnrollmentStore struct {
	DB *gorm.DB
}

func NewGormEnrollmentStore(db *gorm.DB) *GormEnrollmentStore {
	return &GormEnrollmentStore{DB: db}
}

func (s *GormEnrollmentStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormEnrollmentStore) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddEnrollment ghi kiểu "thêm nếu chưa có": khóa chính kép + ON CONFLICT
// DO NOTHING, nên hai tab/thiết bị cùng đăng ký không tạo dòng trùng
// và không mất update.
func (s *GormEnrollmentStore) AddEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&enrollment).Error
}

func (s *GormEnrollmentStore) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}
