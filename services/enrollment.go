package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/utils"
)

var (
	ErrUserNotFound    = errors.New("không tìm thấy người dùng")
	ErrCourseNotFound  = errors.New("không tìm thấy khóa học")
	ErrInvalidCourseID = utils.ErrInvalidCourseID
	ErrStorage         = errors.New("lỗi lưu trữ")
)

// EnrollmentStore là tầng lưu trữ cho enrollment (gorm hoặc mock trong test)
type EnrollmentStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error)
	// AddEnrollment phải là "thêm nếu chưa có" ở mức atomic,
	// không phải read-modify-write cả danh sách
	AddEnrollment(ctx context.Context, userID, courseID uuid.UUID) error
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)
}

type EnrollResult struct {
	Enrolled bool
	Already  bool
}

type EnrollmentService struct {
	store EnrollmentStore

	// Đọc lại xác minh sau khi ghi (ENROLL_VERIFY_READ=true).
	// Nếu kết quả đọc lại lệch với ghi thì chỉ log warning,
	// bản ghi vẫn là nguồn sự thật.
	verifyRead bool
}

func NewEnrollmentService(store EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{
		store:      store,
		verifyRead: os.Getenv("ENROLL_VERIFY_READ") == "true",
	}
}

// Enroll đăng ký user vào khóa học, idempotent: gọi lại với cặp
// (email, courseID) đã đăng ký sẽ trả về enrolled=true mà không ghi thêm.
func (s *EnrollmentService) Enroll(ctx context.Context, email string, courseID interface{}) (EnrollResult, error) {
	canonical := utils.CanonicalCourseID(courseID)
	if canonical == "" {
		return EnrollResult{}, ErrInvalidCourseID
	}
	cid := uuid.MustParse(canonical)

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EnrollResult{}, ErrUserNotFound
		}
		return EnrollResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	exists, err := s.store.CourseExists(ctx, cid)
	if err != nil {
		return EnrollResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !exists {
		return EnrollResult{}, ErrCourseNotFound
	}

	// Đã đăng ký rồi -> không ghi gì thêm
	already, err := s.isEnrolled(ctx, user.ID, canonical)
	if err != nil {
		return EnrollResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if already {
		return EnrollResult{Enrolled: true, Already: true}, nil
	}

	if err := s.store.AddEnrollment(ctx, user.ID, cid); err != nil {
		return EnrollResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if s.verifyRead {
		ok, err := s.isEnrolled(ctx, user.ID, canonical)
		if err != nil || !ok {
			log.Printf("Cảnh báo: đọc lại sau khi ghi enrollment không khớp (user=%s course=%s err=%v)", user.Email, canonical, err)
		}
	}

	return EnrollResult{Enrolled: true}, nil
}

// IsEnrolled kiểm tra membership cho soft gating ở UI: mọi lỗi
// (id sai, thiếu email, user không tồn tại, lỗi storage) đều trả về
// false thay vì error để không làm vỡ phía gọi.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, email string, courseID interface{}) (bool, error) {
	canonical := utils.CanonicalCourseID(courseID)
	if canonical == "" || email == "" {
		return false, nil
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return false, nil
	}

	enrolled, err := s.isEnrolled(ctx, user.ID, canonical)
	if err != nil {
		return false, nil
	}
	return enrolled, nil
}

// So sánh membership qua dạng chuẩn của course id, vì id lưu trữ và id
// truy vấn có thể đến dưới kiểu runtime khác nhau.
func (s *EnrollmentService) isEnrolled(ctx context.Context, userID uuid.UUID, canonicalCourseID string) (bool, error) {
	enrollments, err := s.store.EnrolledCourses(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, e := range enrollments {
		if utils.CanonicalCourseID(e.CourseID) == canonicalCourseID {
			return true, nil
		}
	}
	return false, nil
}
