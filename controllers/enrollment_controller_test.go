package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/services"
)

// Mock store cho httptest, không cần database
type mockStore struct {
	users       map[string]*models.User
	courses     map[uuid.UUID]bool
	enrollments []models.Enrollment
}

func newTestStore() *mockStore {
	return &mockStore{
		users:   make(map[string]*models.User),
		courses: make(map[uuid.UUID]bool),
	}
}

func (m *mockStore) addUser(email string) *models.User {
	u := &models.User{ID: uuid.New(), Email: email}
	m.users[strings.ToLower(email)] = u
	return u
}

func (m *mockStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockStore) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	return m.courses[courseID], nil
}

func (m *mockStore) AddEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return nil
		}
	}
	m.enrollments = append(m.enrollments, models.Enrollment{UserID: userID, CourseID: courseID})
	return nil
}

func (m *mockStore) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// sessionEmail != "" thì giả lập OptionalAuthMiddleware đã set email
func newTestRouter(store *mockStore, sessionEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if sessionEmail != "" {
		r.Use(func(c *gin.Context) {
			c.Set("email", sessionEmail)
			c.Next()
		})
	}
	ctrl := NewEnrollmentController(services.NewEnrollmentService(store))
	r.POST("/api/courses/:id/enroll", ctrl.Enroll)
	r.GET("/api/courses/:id/enroll", ctrl.GetStatus)
	return r
}

func doRequest(r *gin.Engine, method, url, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestEnrollEndpoint_Success(t *testing.T) {
	store := newTestStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "")
	w, resp := doRequest(r, http.MethodPost, "/api/courses/"+courseID.String()+"/enroll",
		`{"email":"hocvien@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if resp["enrolled"] != true || resp["success"] != true {
		t.Errorf("unexpected body: %v", resp)
	}
	if resp["courseId"] != courseID.String() {
		t.Errorf("courseId = %v, want %s", resp["courseId"], courseID)
	}
	if len(store.enrollments) != 1 {
		t.Errorf("enrollment rows = %d, want 1", len(store.enrollments))
	}
}

func TestEnrollEndpoint_DuplicateIsIdempotent(t *testing.T) {
	store := newTestStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "")
	url := "/api/courses/" + courseID.String() + "/enroll"
	body := `{"email":"hocvien@example.com"}`

	w1, resp1 := doRequest(r, http.MethodPost, url, body)
	w2, resp2 := doRequest(r, http.MethodPost, url, body)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Fatalf("status = %d, %d, want 200 both", w1.Code, w2.Code)
	}
	if resp1["enrolled"] != true || resp2["enrolled"] != true {
		t.Error("both calls must report enrolled:true")
	}
	if resp2["message"] != "Already enrolled" {
		t.Errorf("second call message = %v, want 'Already enrolled'", resp2["message"])
	}
	if len(store.enrollments) != 1 {
		t.Errorf("enrollment rows = %d, want exactly 1", len(store.enrollments))
	}
}

// Session (JWT) được thử trước, email trong body chỉ là fallback
func TestEnrollEndpoint_SessionWinsOverBody(t *testing.T) {
	store := newTestStore()
	sessionUser := store.addUser("session@example.com")
	store.addUser("body@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "session@example.com")
	w, _ := doRequest(r, http.MethodPost, "/api/courses/"+courseID.String()+"/enroll",
		`{"email":"body@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(store.enrollments) != 1 || store.enrollments[0].UserID != sessionUser.ID {
		t.Error("enrollment must be recorded for the session user")
	}
}

func TestEnrollEndpoint_Unauthorized(t *testing.T) {
	store := newTestStore()
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "")
	w, resp := doRequest(r, http.MethodPost, "/api/courses/"+courseID.String()+"/enroll", `{}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp["error"] != "Unauthorized - Email required" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestEnrollEndpoint_InvalidCourseID(t *testing.T) {
	store := newTestStore()
	store.addUser("hocvien@example.com")

	r := newTestRouter(store, "")
	w, resp := doRequest(r, http.MethodPost, "/api/courses/not-an-id/enroll",
		`{"email":"hocvien@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["error"] != "Invalid course ID" {
		t.Errorf("error = %v, want 'Invalid course ID'", resp["error"])
	}
}

func TestEnrollEndpoint_NotFound(t *testing.T) {
	store := newTestStore()
	store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "")

	// Khóa học không tồn tại
	w, resp := doRequest(r, http.MethodPost, "/api/courses/"+uuid.New().String()+"/enroll",
		`{"email":"hocvien@example.com"}`)
	if w.Code != http.StatusNotFound || resp["error"] != "Course not found" {
		t.Errorf("unknown course: status=%d error=%v", w.Code, resp["error"])
	}

	// User không tồn tại
	w, resp = doRequest(r, http.MethodPost, "/api/courses/"+courseID.String()+"/enroll",
		`{"email":"khongco@example.com"}`)
	if w.Code != http.StatusNotFound || resp["error"] != "User not found" {
		t.Errorf("unknown user: status=%d error=%v", w.Code, resp["error"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	store := newTestStore()
	user := store.addUser("hocvien@example.com")
	courseID := uuid.New()
	store.courses[courseID] = true
	store.enrollments = append(store.enrollments, models.Enrollment{UserID: user.ID, CourseID: courseID})

	r := newTestRouter(store, "")

	w, resp := doRequest(r, http.MethodGet,
		"/api/courses/"+courseID.String()+"/enroll?email=hocvien@example.com", "")
	if w.Code != http.StatusOK || resp["enrolled"] != true {
		t.Errorf("enrolled user: status=%d body=%v", w.Code, resp)
	}

	w, resp = doRequest(r, http.MethodGet,
		"/api/courses/"+courseID.String()+"/enroll?email=khac@example.com", "")
	if w.Code != http.StatusOK || resp["enrolled"] != false {
		t.Errorf("other user: status=%d body=%v", w.Code, resp)
	}
}

// GET status không bao giờ trả lỗi: mọi trường hợp hỏng đều {enrolled:false}
func TestStatusEndpoint_DegradesToFalse(t *testing.T) {
	store := newTestStore()
	courseID := uuid.New()
	store.courses[courseID] = true

	r := newTestRouter(store, "")

	urls := []string{
		"/api/courses/" + courseID.String() + "/enroll", // thiếu email
		"/api/courses/not-an-id/enroll?email=hocvien@example.com",
		"/api/courses/" + courseID.String() + "/enroll?email=khongco@example.com",
	}
	for _, url := range urls {
		w, resp := doRequest(r, http.MethodGet, url, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", url, w.Code)
		}
		if resp["enrolled"] != false {
			t.Errorf("%s: enrolled = %v, want false", url, resp["enrolled"])
		}
	}
}
