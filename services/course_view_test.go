package services

import (
	"errors"
	"testing"

	"github.com/vnkhanh/e-learning-backend/models"
)

func sampleCourse() *models.Course {
	return &models.Course{
		Title: "Go cơ bản",
		Videos: []models.CourseVideo{
			{Title: "Bài 2", SortOrder: 1},
			{Title: "Bài 1", SortOrder: 0},
		},
	}
}

func TestCourseView_NoDefaultSelectionBeforeStatusResolved(t *testing.T) {
	v := NewCourseView(true)

	seq := v.BeginCourseFetch()
	v.BeginEnrollmentCheck()

	// Course về trước khi biết enrollment -> chưa được chọn video
	v.ApplyCourseResult(seq, sampleCourse(), nil)
	if v.SelectedVideo != nil {
		t.Fatal("video selected before enrollment status resolved")
	}
}

func TestCourseView_OutOfOrderArrival(t *testing.T) {
	// Enrollment check về trước course fetch
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()

	v.ApplyEnrollmentStatus(statusSeq, true, nil)
	if v.SelectedVideo != nil {
		t.Fatal("selected a video with no course data")
	}

	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)
	if v.SelectedVideo == nil {
		t.Fatal("expected default selection once both resolved")
	}
	if v.SelectedVideo.SortOrder != 0 {
		t.Errorf("default selection = sort_order %d, want 0", v.SelectedVideo.SortOrder)
	}
}

func TestCourseView_StaleStatusResponseDiscarded(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)

	oldSeq := v.BeginEnrollmentCheck()
	newSeq := v.BeginEnrollmentCheck()

	// Response mới về trước
	v.ApplyEnrollmentStatus(newSeq, true, nil)
	if v.State() != AuthenticatedEnrolled {
		t.Fatal("latest response not applied")
	}

	// Response cũ về sau, phải bị bỏ qua thay vì ghi đè
	v.ApplyEnrollmentStatus(oldSeq, false, nil)
	if v.State() != AuthenticatedEnrolled {
		t.Error("stale response clobbered newer state")
	}
}

func TestCourseView_ClosedViewDiscardsResponses(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()

	v.Close()

	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)
	v.ApplyEnrollmentStatus(statusSeq, true, nil)

	if v.Course != nil || v.State() == AuthenticatedEnrolled {
		t.Error("responses applied after Close")
	}
}

func TestCourseView_OptimisticEnrollThenConfirm(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()
	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)
	v.ApplyEnrollmentStatus(statusSeq, false, nil)

	if len(v.VisibleVideos()) != 0 {
		t.Fatal("unenrolled must see no videos")
	}

	// POST enroll thành công -> set lạc quan ngay
	v.ApplyEnrollResult(nil)
	if v.State() != AuthenticatedEnrolled {
		t.Fatal("optimistic enrolled flag not set")
	}
	if !v.PendingConfirm() {
		t.Fatal("expected pending confirmation re-check")
	}
	if len(v.VisibleVideos()) != 2 {
		t.Fatal("videos should be visible after enroll")
	}

	// Check xác nhận đồng ý -> giữ nguyên
	confirmSeq := v.BeginEnrollmentCheck()
	v.ApplyEnrollmentStatus(confirmSeq, true, nil)
	if v.PendingConfirm() {
		t.Error("pending flag should clear after confirmation")
	}
	if v.State() != AuthenticatedEnrolled {
		t.Error("confirmed state lost")
	}
}

// Kết quả xác nhận luôn thắng giá trị lạc quan
func TestCourseView_ConfirmDisagreesClearsSelection(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()
	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)
	v.ApplyEnrollmentStatus(statusSeq, false, nil)

	v.ApplyEnrollResult(nil)
	if v.SelectedVideo == nil {
		t.Fatal("expected selection after optimistic enroll")
	}

	// Server nói ngược lại -> enrolled về false, video đang chọn phải bị bỏ
	confirmSeq := v.BeginEnrollmentCheck()
	v.ApplyEnrollmentStatus(confirmSeq, false, nil)
	if v.State() == AuthenticatedEnrolled {
		t.Error("confirm value must win over optimistic value")
	}
	if v.SelectedVideo != nil {
		t.Error("selected video must be cleared on enrolled->unenrolled")
	}
}

func TestCourseView_EnrollFailureLeavesStateUnchanged(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()
	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)
	v.ApplyEnrollmentStatus(statusSeq, false, nil)

	v.ApplyEnrollResult(errors.New("Internal server error"))
	if v.State() == AuthenticatedEnrolled {
		t.Error("failed enroll must not flip enrolled flag")
	}
	if v.LastError == "" {
		t.Error("expected user-visible error recorded")
	}
	if len(v.VisibleVideos()) != 0 {
		t.Error("no content after failed enroll")
	}
}

func TestCourseView_StatusFetchErrorFailsClosed(t *testing.T) {
	v := NewCourseView(true)
	courseSeq := v.BeginCourseFetch()
	statusSeq := v.BeginEnrollmentCheck()
	v.ApplyCourseResult(courseSeq, sampleCourse(), nil)

	v.ApplyEnrollmentStatus(statusSeq, true, errors.New("network"))
	if v.State() == AuthenticatedEnrolled {
		t.Error("status fetch error must map to not enrolled")
	}
}

func TestCourseView_CourseFetchErrorIsNotFound(t *testing.T) {
	v := NewCourseView(false)
	seq := v.BeginCourseFetch()
	v.ApplyCourseResult(seq, nil, errors.New("record not found"))
	if !v.NotFound {
		t.Error("expected NotFound state")
	}
}
