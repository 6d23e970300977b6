package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/models"
)

// Mock store cho test, không cần database
type mockEnrollmentStore struct {
	users       map[string]*models.User // key: email chữ thường
	courses     map[uuid.UUID]bool
	enrollments []models.Enrollment

	failAdd  bool
	failRead bool
}

func newMockStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{
		users:   make(map[string]*models.User),
		courses: make(map[uuid.UUID]bool),
	}
}

func (m *mockEnrollmentStore) addUser(email string) *models.User {
	u := &models.User{ID: uuid.New(), Email: email}
	m.users[strings.ToLower(email)] = u
	return u
}

func (m *mockEnrollmentStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockEnrollmentStore) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	return m.courses[courseID], nil
}

func (m *mockEnrollmentStore) AddEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	if m.failAdd {
		return errors.New("connection reset")
	}
	// Mô phỏng ON CONFLICT DO NOTHING của khóa chính kép
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return nil
		}
	}
	m.enrollments = append(m.enrollments, models.Enrollment{UserID: userID, CourseID: courseID})
	return nil
}

func (m *mockEnrollmentStore) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	if m.failRead {
		return nil, errors.New("connection reset")
	}
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentStore) countFor(courseID uuid.UUID) int {
	n := 0
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n
}

func TestEnroll_Idempotent(t *testing.T) {
	store := newMockStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	svc := NewEnrollmentService(store)
	ctx := context.Background()

	first, err := svc.Enroll(ctx, "hocvien@example.com", courseID.String())
	if err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}
	if !first.Enrolled || first.Already {
		t.Errorf("first enroll = %+v, want enrolled, not already", first)
	}

	second, err := svc.Enroll(ctx, "hocvien@example.com", courseID.String())
	if err != nil {
		t.Fatalf("second enroll failed: %v", err)
	}
	if !second.Enrolled || !second.Already {
		t.Errorf("second enroll = %+v, want enrolled + already", second)
	}

	if n := store.countFor(courseID); n != 1 {
		t.Errorf("enrollment rows = %d, want exactly 1", n)
	}
}

// Email lookup không phân biệt hoa thường
func TestEnroll_EmailCaseInsensitive(t *testing.T) {
	store := newMockStore()
	store.addUser("HocVien@Example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	svc := NewEnrollmentService(store)
	if _, err := svc.Enroll(context.Background(), "hocvien@example.com", courseID.String()); err != nil {
		t.Fatalf("enroll with different email case failed: %v", err)
	}
}

func TestEnroll_Errors(t *testing.T) {
	store := newMockStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	svc := NewEnrollmentService(store)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "hocvien@example.com", "not-an-id"); !errors.Is(err, ErrInvalidCourseID) {
		t.Errorf("invalid id: got %v, want ErrInvalidCourseID", err)
	}
	if _, err := svc.Enroll(ctx, "khongco@example.com", courseID.String()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: got %v, want ErrUserNotFound", err)
	}
	if _, err := svc.Enroll(ctx, "hocvien@example.com", uuid.New().String()); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("unknown course: got %v, want ErrCourseNotFound", err)
	}

	// Lỗi ghi storage -> ErrStorage, không có mutation nửa vời
	store.failAdd = true
	if _, err := svc.Enroll(ctx, "hocvien@example.com", courseID.String()); !errors.Is(err, ErrStorage) {
		t.Errorf("storage failure: got %v, want ErrStorage", err)
	}
	store.failAdd = false
	enrolled, _ := svc.IsEnrolled(ctx, "hocvien@example.com", courseID.String())
	if enrolled {
		t.Error("failed write must not leave user enrolled")
	}
}

// Membership so sánh qua dạng chuẩn: kiểu runtime của id không quan trọng
func TestIsEnrolled_HeterogeneousIDForms(t *testing.T) {
	store := newMockStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	svc := NewEnrollmentService(store)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "hocvien@example.com", courseID); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	forms := []interface{}{
		courseID,
		courseID.String(),
		strings.ToUpper(courseID.String()),
		[]byte(courseID.String()),
	}
	for _, form := range forms {
		enrolled, err := svc.IsEnrolled(ctx, "hocvien@example.com", form)
		if err != nil {
			t.Fatalf("IsEnrolled(%v) errored: %v", form, err)
		}
		if !enrolled {
			t.Errorf("IsEnrolled(%v) = false, want true", form)
		}
	}
}

// Đường đọc soft gating luôn degrade về false, không bao giờ error
func TestIsEnrolled_Degrades(t *testing.T) {
	store := newMockStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	svc := NewEnrollmentService(store)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		courseID interface{}
	}{
		{"missing email", "", courseID.String()},
		{"invalid course id", "hocvien@example.com", "not-an-id"},
		{"unknown user", "khongco@example.com", courseID.String()},
	}
	for _, tc := range cases {
		enrolled, err := svc.IsEnrolled(ctx, tc.email, tc.courseID)
		if err != nil {
			t.Errorf("%s: got error %v, want nil", tc.name, err)
		}
		if enrolled {
			t.Errorf("%s: got enrolled=true, want false", tc.name)
		}
	}

	// Lỗi đọc storage cũng degrade (fail closed)
	store.failRead = true
	enrolled, err := svc.IsEnrolled(ctx, "hocvien@example.com", courseID.String())
	if err != nil || enrolled {
		t.Errorf("storage read failure: got (%v, %v), want (false, nil)", enrolled, err)
	}
}
