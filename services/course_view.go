package services

import (
	"github.com/vnkhanh/e-learning-backend/models"
)

// CourseView là state machine cho trang chi tiết khóa học: điều phối
// fetch course, check enrollment và hành động enroll, giữ state nhất quán
// dù các response về không theo thứ tự. Mỗi loại fetch có số thứ tự
// request; response cũ hơn request mới nhất (hoặc về sau khi Close)
// bị bỏ qua thay vì ghi đè state.
//
// Không chọn video "đang phát" mặc định trước khi biết kết quả check
// enrollment, tránh lóe nội dung xem được rồi bị thu hồi.
type CourseView struct {
	LoggedIn bool
	NotFound bool
	Course   *models.Course

	SelectedVideo *models.CourseVideo
	LastError     string

	closed bool

	courseSeq      int
	statusSeq      int
	statusResolved bool
	enrolled       bool

	// true khi vừa set enrolled lạc quan sau POST enroll thành công,
	// chờ lần check xác nhận; kết quả xác nhận luôn thắng
	pendingConfirm bool
}

func NewCourseView(loggedIn bool) *CourseView {
	return &CourseView{LoggedIn: loggedIn}
}

// BeginCourseFetch đánh dấu một request fetch course mới, trả về token
// để ApplyCourseResult đối chiếu
func (v *CourseView) BeginCourseFetch() int {
	v.courseSeq++
	return v.courseSeq
}

func (v *CourseView) ApplyCourseResult(seq int, course *models.Course, err error) {
	if v.closed || seq != v.courseSeq {
		return // response cũ hoặc view đã đóng
	}
	if err != nil {
		v.NotFound = true
		v.Course = nil
		v.SelectedVideo = nil
		return
	}
	v.Course = course
	v.maybeSelectDefault()
}

// BeginEnrollmentCheck đánh dấu một request check enrollment mới
// (lần đầu khi mount, hoặc lần xác nhận sau enroll)
func (v *CourseView) BeginEnrollmentCheck() int {
	v.statusSeq++
	return v.statusSeq
}

func (v *CourseView) ApplyEnrollmentStatus(seq int, enrolled bool, err error) {
	if v.closed || seq != v.statusSeq {
		return
	}

	// Lỗi check -> coi như chưa đăng ký (fail closed)
	if err != nil {
		enrolled = false
	}

	wasEnrolled := v.enrolled
	v.enrolled = enrolled
	v.statusResolved = true
	v.pendingConfirm = false

	// Phòng thủ: enrolled -> unenrolled thì bỏ video đang chọn
	if wasEnrolled && !enrolled {
		v.SelectedVideo = nil
	}
	v.maybeSelectDefault()
}

// ApplyEnrollResult xử lý kết quả bấm nút đăng ký. Thành công: set
// enrolled lạc quan ngay để UI phản hồi nhanh, chờ check xác nhận.
// Thất bại: state giữ nguyên, chỉ ghi lại lỗi cho UI hiển thị.
func (v *CourseView) ApplyEnrollResult(err error) {
	if v.closed {
		return
	}
	if err != nil {
		v.LastError = err.Error()
		return
	}
	v.LastError = ""
	v.enrolled = true
	v.statusResolved = true
	v.pendingConfirm = true
	v.maybeSelectDefault()
}

// PendingConfirm cho biết view đang chờ lần check xác nhận sau enroll
func (v *CourseView) PendingConfirm() bool {
	return v.pendingConfirm
}

// Close đánh dấu view đã unmount: mọi response về sau đều bị bỏ qua
func (v *CourseView) Close() {
	v.closed = true
}

func (v *CourseView) State() AccessState {
	return ResolveState(v.LoggedIn, v.enrolled, nil)
}

// VisibleVideos đi qua access gate, đã sắp theo sort_order
func (v *CourseView) VisibleVideos() []models.CourseVideo {
	if v.Course == nil {
		return []models.CourseVideo{}
	}
	return VisibleVideos(v.State(), v.Course.Videos)
}

func (v *CourseView) VisiblePDFs() []models.CoursePDF {
	if v.Course == nil {
		return []models.CoursePDF{}
	}
	return VisiblePDFs(v.State(), v.Course.PDFs)
}

// Chọn video mặc định: chỉ sau khi enrollment đã resolve và gate cho phép
func (v *CourseView) maybeSelectDefault() {
	if v.SelectedVideo != nil || !v.statusResolved {
		return
	}
	videos := v.VisibleVideos()
	if len(videos) == 0 {
		return
	}
	v.SelectedVideo = &videos[0]
}
