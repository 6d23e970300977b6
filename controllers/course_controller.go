package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-learning-backend/config"
	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/services"
	"github.com/vnkhanh/e-learning-backend/utils"
)

// GET /api/courses — catalog public, chỉ khóa học đã published
func GetCourses(c *gin.Context) {
	db := config.DB

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	query := db.Model(&models.Course{}).Where("status = ?", "published")

	// Tìm kiếm theo tiêu đề
	if q := c.Query("q"); q != "" {
		query = query.Where("title ILIKE ?", "%"+q+"%")
	}
	if paid := c.Query("is_paid"); paid != "" {
		query = query.Where("is_paid = ?", paid == "true")
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses":     courses,
		"total":       total,
		"page":        page,
		"total_pages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

type courseFetchResult struct {
	course *models.Course
	err    error
}

type enrollCheckResult struct {
	enrolled bool
	err      error
}

// GET /api/courses/:id — chi tiết khóa học, nội dung gate theo enrollment.
// Fetch course và check enrollment chạy song song, không chặn nhau;
// hai response có thể về theo thứ tự bất kỳ.
func GetCourseDetail(c *gin.Context) {
	db := config.DB

	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	email := c.GetString("email") // rỗng nếu anonymous (OptionalAuthMiddleware)

	courseCh := make(chan courseFetchResult, 1)
	enrollCh := make(chan enrollCheckResult, 1)

	go func() {
		var course models.Course
		err := db.WithContext(c.Request.Context()).
			Preload("Videos").
			Preload("PDFs").
			Where("status = ?", "published").
			First(&course, "id = ?", courseID).Error
		courseCh <- courseFetchResult{course: &course, err: err}
	}()

	go func() {
		svc := services.NewEnrollmentService(services.NewGormEnrollmentStore(db))
		enrolled, err := svc.IsEnrolled(c.Request.Context(), email, courseID)
		enrollCh <- enrollCheckResult{enrolled: enrolled, err: err}
	}()

	courseRes := <-courseCh
	enrollRes := <-enrollCh

	if courseRes.err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	course := courseRes.course

	// Lỗi check enrollment đã được service nuốt thành false (fail closed)
	state := services.ResolveState(email != "", enrollRes.enrolled, enrollRes.err)

	prompt := ""
	switch state {
	case services.Anonymous:
		prompt = "login_required"
	case services.AuthenticatedUnenrolled:
		prompt = "enrollment_required"
	}

	c.JSON(http.StatusOK, gin.H{
		"course": gin.H{
			"id":          course.ID,
			"title":       course.Title,
			"slug":        course.Slug,
			"description": course.Description,
			"thumbnail":   course.Thumbnail,
			"is_paid":     course.IsPaid,
			"price":       course.Price,
			"created_at":  course.CreatedAt,
		},
		// Gate quyết định cả playback lẫn listing: chưa đủ quyền thì
		// danh sách rỗng, không lộ metadata
		"videos":   services.VisibleVideos(state, course.Videos),
		"pdfs":     services.VisiblePDFs(state, course.PDFs),
		"enrolled": state == services.AuthenticatedEnrolled,
		"access":   state.String(),
		"prompt":   prompt,
	})
}
