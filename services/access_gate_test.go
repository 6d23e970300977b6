package services

import (
	"errors"
	"testing"

	"github.com/vnkhanh/e-learning-backend/models"
)

func sampleVideos() []models.CourseVideo {
	// sort_order [2,0,1], cố tình không theo vị trí mảng
	return []models.CourseVideo{
		{Title: "Video C", SortOrder: 2},
		{Title: "Video A", SortOrder: 0},
		{Title: "Video B", SortOrder: 1},
	}
}

func TestResolveState(t *testing.T) {
	if got := ResolveState(false, false, nil); got != Anonymous {
		t.Errorf("anonymous: got %v", got)
	}
	if got := ResolveState(true, false, nil); got != AuthenticatedUnenrolled {
		t.Errorf("unenrolled: got %v", got)
	}
	if got := ResolveState(true, true, nil); got != AuthenticatedEnrolled {
		t.Errorf("enrolled: got %v", got)
	}
}

// Lỗi check enrollment -> rơi về trạng thái hạn chế nhất, không fail open
func TestResolveState_FailClosed(t *testing.T) {
	checkErr := errors.New("timeout")
	if got := ResolveState(true, true, checkErr); got != AuthenticatedUnenrolled {
		t.Errorf("check error while logged in: got %v, want AuthenticatedUnenrolled", got)
	}
	if got := ResolveState(false, true, checkErr); got != Anonymous {
		t.Errorf("check error while anonymous: got %v, want Anonymous", got)
	}
	if CanAccessContent(ResolveState(true, true, checkErr)) {
		t.Error("CanAccessContent must be false when the enrollment check errored")
	}
}

func TestCanAccessContent(t *testing.T) {
	if CanAccessContent(Anonymous) {
		t.Error("anonymous must not access content")
	}
	// Đã login nhưng chưa đăng ký (kể cả khóa miễn phí) vẫn không xem được
	if CanAccessContent(AuthenticatedUnenrolled) {
		t.Error("authenticated-unenrolled must not access content")
	}
	if !CanAccessContent(AuthenticatedEnrolled) {
		t.Error("authenticated-enrolled must access content")
	}
}

func TestVisibleVideos_SortedBySortOrder(t *testing.T) {
	videos := VisibleVideos(AuthenticatedEnrolled, sampleVideos())
	if len(videos) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(videos))
	}
	for i, want := range []int{0, 1, 2} {
		if videos[i].SortOrder != want {
			t.Errorf("videos[%d].SortOrder = %d, want %d", i, videos[i].SortOrder, want)
		}
	}
}

// Không lộ metadata cho người chưa đủ quyền
func TestVisibleVideos_NoLeak(t *testing.T) {
	for _, state := range []AccessState{Anonymous, AuthenticatedUnenrolled} {
		if got := VisibleVideos(state, sampleVideos()); len(got) != 0 {
			t.Errorf("state %v: expected empty list, got %d items", state, len(got))
		}
	}
}

func TestVisibleVideos_DoesNotMutateInput(t *testing.T) {
	videos := sampleVideos()
	VisibleVideos(AuthenticatedEnrolled, videos)
	if videos[0].SortOrder != 2 {
		t.Error("input slice was reordered")
	}
}

func TestVisiblePDFs(t *testing.T) {
	pdfs := []models.CoursePDF{
		{Title: "Tài liệu 2", SortOrder: 2},
		{Title: "Tài liệu 1", SortOrder: 1},
	}

	if got := VisiblePDFs(AuthenticatedUnenrolled, pdfs); len(got) != 0 {
		t.Errorf("expected empty list, got %d items", len(got))
	}

	sorted := VisiblePDFs(AuthenticatedEnrolled, pdfs)
	if len(sorted) != 2 || sorted[0].SortOrder != 1 {
		t.Errorf("expected sorted pdfs, got %+v", sorted)
	}
}
