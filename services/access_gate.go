package services

import (
	"sort"

	"github.com/vnkhanh/e-learning-backend/models"
)

// AccessState là trạng thái truy cập nội dung của một người xem.
// Chỉ đi tiến: Anonymous -> AuthenticatedUnenrolled -> AuthenticatedEnrolled.
type AccessState int

const (
	Anonymous AccessState = iota
	AuthenticatedUnenrolled
	AuthenticatedEnrolled
)

func (s AccessState) String() string {
	switch s {
	case AuthenticatedUnenrolled:
		return "authenticated-unenrolled"
	case AuthenticatedEnrolled:
		return "authenticated-enrolled"
	default:
		return "anonymous"
	}
}

// ResolveState map kết quả check enrollment về AccessState.
// checkErr != nil -> rơi về trạng thái hạn chế nhất có thể (fail closed),
// không bao giờ fail open.
func ResolveState(loggedIn bool, enrolled bool, checkErr error) AccessState {
	if !loggedIn {
		return Anonymous
	}
	if checkErr != nil {
		return AuthenticatedUnenrolled
	}
	if enrolled {
		return AuthenticatedEnrolled
	}
	return AuthenticatedUnenrolled
}

// CanAccessContent chỉ true khi đã login VÀ đã đăng ký. Khóa học miễn phí
// cũng phải qua bước "đăng ký miễn phí" rồi mới mở nội dung.
func CanAccessContent(state AccessState) bool {
	return state == AuthenticatedEnrolled
}

// VisibleVideos trả về danh sách video sắp theo sort_order tăng dần nếu
// được phép xem; ngược lại trả về danh sách rỗng — không để lộ cả
// tiêu đề/metadata cho người chưa đăng ký.
func VisibleVideos(state AccessState, videos []models.CourseVideo) []models.CourseVideo {
	if !CanAccessContent(state) {
		return []models.CourseVideo{}
	}
	sorted := make([]models.CourseVideo, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}

// VisiblePDFs tương tự VisibleVideos cho tài liệu PDF
func VisiblePDFs(state AccessState, pdfs []models.CoursePDF) []models.CoursePDF {
	if !CanAccessContent(state) {
		return []models.CoursePDF{}
	}
	sorted := make([]models.CoursePDF, len(pdfs))
	copy(sorted, pdfs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}
