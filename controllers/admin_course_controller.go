package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/config"
	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/services"
	"github.com/vnkhanh/e-learning-backend/utils"
	"github.com/vnkhanh/e-learning-backend/ws"
)

// Input cho Create / Update
type CourseInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPaid      bool   `json:"is_paid"`
	Price       string `json:"price"`
}

// POST /api/admin/courses
func CreateCourse(c *gin.Context) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề khóa học bắt buộc"})
		return
	}

	// Lấy userID từ context (nếu có)
	var userUUID *uuid.UUID
	userIDStr := c.GetString("user_id")
	if userIDStr != "" {
		parsed, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return
		}
		userUUID = &parsed
	}

	// === Kiểm tra trùng tiêu đề ===
	var count int64
	config.DB.Model(&models.Course{}).Where("LOWER(title) = LOWER(?)", input.Title).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề khóa học đã tồn tại"})
		return
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		IsPaid:      input.IsPaid,
		Price:       input.Price,
		CreatedBy:   userUUID,
		Status:      "draft",
		Slug:        slug.Make(input.Title),
	}

	if err := config.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo khóa học"})
		return
	}

	ws.BroadcastCourseListChanged()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo khóa học thành công",
		"course":  course,
	})
}

// GET /api/admin/courses
func AdminGetCourses(c *gin.Context) {
	db := config.DB

	role := c.GetString("role")
	userIDStr := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Course{}).
		Preload("Videos").
		Preload("PDFs")

	// Nếu là giảng viên, chỉ thấy khóa học của mình
	if role == string(models.RoleLecturer) {
		query = query.Where("courses.created_by = ?", userIDStr)
	}

	// Lọc theo trạng thái
	if status := c.Query("status"); status != "" {
		query = query.Where("courses.status = ?", status)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("title ILIKE ?", "%"+q+"%")
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"total":   total,
		"page":    page,
	})
}

// GET /api/admin/courses/:id
func AdminGetCourseDetail(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("PDFs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

// PUT /api/admin/courses/:id
func UpdateCourse(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course
	if err := config.DB.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	// Tiêu đề mới không được trùng khóa học khác
	var count int64
	config.DB.Model(&models.Course{}).
		Where("LOWER(title) = LOWER(?) AND id <> ?", input.Title, courseID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề khóa học đã tồn tại"})
		return
	}

	course.Title = input.Title
	course.Description = input.Description
	course.IsPaid = input.IsPaid
	course.Price = input.Price
	course.Slug = slug.Make(input.Title)

	if err := config.DB.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật khóa học"})
		return
	}

	ws.BroadcastCourseListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật khóa học thành công", "course": course})
}

// PATCH /api/admin/courses/:id/toggle-status — draft <-> published
func ToggleCourseStatus(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	if course.Status == "published" {
		course.Status = "draft"
	} else {
		course.Status = "published"
	}

	if err := config.DB.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đổi trạng thái"})
		return
	}

	ws.BroadcastCourseListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Đổi trạng thái thành công", "status": course.Status})
}

// DELETE /api/admin/courses/:id
// Xóa khóa học là thao tác hủy hoại: client phải gửi ?confirm=true
func DeleteCourse(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cần xác nhận xóa (confirm=true)"})
		return
	}

	var course models.Course
	if err := config.DB.Preload("Videos").Preload("PDFs").First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	// Xóa object media trên storage trước, lỗi chỉ log warning
	for _, v := range course.Videos {
		if err := utils.DeleteFileFromStorage(v.URL); err != nil {
			println("Cảnh báo: không xóa được video trên storage:", err.Error())
		}
	}
	for _, p := range course.PDFs {
		if err := utils.DeleteFileFromStorage(p.URL); err != nil {
			println("Cảnh báo: không xóa được PDF trên storage:", err.Error())
		}
	}
	if err := utils.DeleteFileFromStorage(course.Thumbnail); err != nil {
		println("Cảnh báo: không xóa được thumbnail trên storage:", err.Error())
	}

	if err := config.DB.Select("Videos", "PDFs").Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa khóa học"})
		return
	}

	ws.BroadcastCourseListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Xóa khóa học thành công"})
}

// POST /api/admin/courses/:id/thumbnail — upload ảnh thumbnail
func UploadCourseThumbnail(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ảnh vượt quá 5MB"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Định dạng ảnh không hỗ trợ"})
		return
	}

	// Ảnh cũ (nếu có) xóa sau khi upload thành công
	oldURL := course.Thumbnail

	publicURL, err := utils.UploadImageToStorage(file, uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload storage", "details": err.Error()})
		return
	}

	if err := config.DB.Model(&course).Update("thumbnail", publicURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được thumbnail"})
		return
	}

	if oldURL != "" {
		if err := utils.DeleteFileFromStorage(oldURL); err != nil {
			println("Cảnh báo: không xóa được thumbnail cũ:", err.Error())
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload thumbnail thành công", "thumbnail": publicURL})
}

// POST /api/admin/courses/:id/videos — upload video bài giảng
func UploadCourseVideo(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tiêu đề video"})
		return
	}
	durationSec, _ := strconv.Atoi(c.PostForm("duration_sec"))
	sortOrder, _ := strconv.Atoi(c.DefaultPostForm("sort_order", "1"))

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > 500*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video vượt quá 500MB"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".mp4" && ext != ".webm" && ext != ".mov" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Định dạng video không hỗ trợ"})
		return
	}

	videoID := uuid.New()
	ws.SendMediaUploadUpdate(courseID.String(), "video", "Đang tải lên", title, "")

	publicURL, err := utils.UploadVideoToStorage(file, courseID.String(), videoID.String())
	if err != nil {
		ws.SendMediaUploadUpdate(courseID.String(), "video", "Lỗi", title, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload storage", "details": err.Error()})
		return
	}

	video := models.CourseVideo{
		ID:          videoID,
		CourseID:    courseID,
		Title:       title,
		URL:         publicURL,
		DurationSec: durationSec,
		SortOrder:   sortOrder,
	}
	if err := config.DB.Create(&video).Error; err != nil {
		ws.SendMediaUploadUpdate(courseID.String(), "video", "Lỗi", title, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được video", "details": err.Error()})
		return
	}

	ws.SendMediaUploadUpdate(courseID.String(), "video", "Hoàn thành", title, "")
	c.JSON(http.StatusCreated, gin.H{"message": "Upload video thành công", "video": video})
}

// POST /api/admin/courses/:id/pdfs — upload tài liệu PDF
func UploadCoursePDF(c *gin.Context) {
	courseID, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var course models.Course
	if err := config.DB.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tiêu đề tài liệu"})
		return
	}
	sortOrder, _ := strconv.Atoi(c.DefaultPostForm("sort_order", "1"))

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > 20*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 20MB"})
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chỉ hỗ trợ file PDF"})
		return
	}

	// Đọc số trang, đồng thời validate PDF hợp lệ
	pageCount, err := services.PDFPageCount(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File PDF không hợp lệ", "details": err.Error()})
		return
	}

	pdfID := uuid.New()
	ws.SendMediaUploadUpdate(courseID.String(), "pdf", "Đang tải lên", title, "")

	publicURL, err := utils.UploadPDFToStorage(file, courseID.String(), pdfID.String())
	if err != nil {
		ws.SendMediaUploadUpdate(courseID.String(), "pdf", "Lỗi", title, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload storage", "details": err.Error()})
		return
	}

	pdf := models.CoursePDF{
		ID:        pdfID,
		CourseID:  courseID,
		Title:     title,
		URL:       publicURL,
		PageCount: pageCount,
		FileSize:  file.Size,
		SortOrder: sortOrder,
	}
	if err := config.DB.Create(&pdf).Error; err != nil {
		ws.SendMediaUploadUpdate(courseID.String(), "pdf", "Lỗi", title, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được tài liệu", "details": err.Error()})
		return
	}

	ws.SendMediaUploadUpdate(courseID.String(), "pdf", "Hoàn thành", title, "")
	c.JSON(http.StatusCreated, gin.H{"message": "Upload tài liệu thành công", "pdf": pdf})
}

// DELETE /api/admin/videos/:id
func DeleteCourseVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	var video models.CourseVideo
	if err := config.DB.First(&video, "id = ?", videoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	if err := utils.DeleteFileFromStorage(video.URL); err != nil {
		println("Cảnh báo: không xóa được video trên storage:", err.Error())
	}

	if err := config.DB.Delete(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa video thành công"})
}

// DELETE /api/admin/pdfs/:id
func DeleteCoursePDF(c *gin.Context) {
	pdfID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PDF ID"})
		return
	}

	var pdf models.CoursePDF
	if err := config.DB.First(&pdf, "id = ?", pdfID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		return
	}

	if err := utils.DeleteFileFromStorage(pdf.URL); err != nil {
		println("Cảnh báo: không xóa được PDF trên storage:", err.Error())
	}

	if err := config.DB.Delete(&pdf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa tài liệu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa tài liệu thành công"})
}
