package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/services"
	"github.com/vnkhanh/e-learning-backend/utils"
)

// identityResolver là một chiến lược lấy email định danh từ request.
// Các resolver được thử theo thứ tự, cái nào trả về khác rỗng thì thắng.
type identityResolver func(c *gin.Context) string

// Email từ session (JWT claims, do OptionalAuthMiddleware set)
func sessionEmailResolver(c *gin.Context) string {
	return c.GetString("email")
}

// Email từ body JSON { "email": "..." }
func bodyEmailResolver(c *gin.Context) string {
	var body struct {
		Email string `json:"email"`
	}
	// Body có thể rỗng, không coi là lỗi
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return body.Email
}

// Email từ query ?email= (cho GET check status)
func queryEmailResolver(c *gin.Context) string {
	return c.Query("email")
}

func resolveIdentity(c *gin.Context, resolvers ...identityResolver) string {
	for _, resolve := range resolvers {
		if email := resolve(c); email != "" {
			return email
		}
	}
	return ""
}

// EnrollmentController giữ service được inject để test bằng mock store
type EnrollmentController struct {
	svc *services.EnrollmentService
}

func NewEnrollmentController(svc *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{svc: svc}
}

// POST /api/courses/:id/enroll
// Định danh: thử session trước, fallback sang email trong body
func (ec *EnrollmentController) Enroll(c *gin.Context) {
	courseID := c.Param("id")

	email := resolveIdentity(c, sessionEmailResolver, bodyEmailResolver)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Email required"})
		return
	}

	result, err := ec.svc.Enroll(c.Request.Context(), email, courseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCourseID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		case errors.Is(err, services.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			resp := gin.H{"error": "Internal server error"}
			if gin.Mode() != gin.ReleaseMode {
				resp["details"] = err.Error()
			}
			c.JSON(http.StatusInternalServerError, resp)
		}
		return
	}

	if result.Already {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Already enrolled",
			"enrolled": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Enrolled successfully",
		"enrolled": true,
		"courseId": utils.CanonicalCourseID(courseID),
		"success":  true,
	})
}

// GET /api/courses/:id/enroll?email=
// Endpoint soft gating cho UI: mọi trường hợp không resolve được
// (thiếu email, id sai, user không tồn tại) đều trả {enrolled:false},
// không bao giờ trả lỗi.
func (ec *EnrollmentController) GetStatus(c *gin.Context) {
	courseID := c.Param("id")
	email := resolveIdentity(c, sessionEmailResolver, queryEmailResolver)

	enrolled, _ := ec.svc.IsEnrolled(c.Request.Context(), email, courseID)
	c.JSON(http.StatusOK, gin.H{"enrolled": enrolled})
}

// GET /api/user/enrollments — danh sách khóa học user đã đăng ký
func GetMyEnrollments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	var enrollments []models.Enrollment
	if err := db.Preload("Course").Where("user_id = ?", userID).Order("created_at DESC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách đăng ký"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}
