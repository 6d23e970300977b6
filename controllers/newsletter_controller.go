package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-learning-backend/config"
	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/utils"
)

type NewsletterInput struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/newsletter/subscribe
func SubscribeNewsletter(c *gin.Context) {
	var input NewsletterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email không hợp lệ"})
		return
	}

	db := config.DB

	// Đã đăng ký rồi thì bật lại nếu trước đó hủy
	var existing models.NewsletterSubscriber
	if err := db.Where("LOWER(email) = LOWER(?)", input.Email).First(&existing).Error; err == nil {
		if existing.UnsubscribedAt == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Email đã đăng ký nhận tin"})
			return
		}
		if err := db.Model(&existing).Update("unsubscribed_at", nil).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đăng ký lại"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Đăng ký nhận tin thành công"})
		return
	}

	sub := models.NewsletterSubscriber{Email: input.Email}
	if err := db.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đăng ký nhận tin"})
		return
	}

	// Gửi email chào mừng (không chặn luồng)
	go func(to string) {
		body := `
		<h3>Cảm ơn bạn đã đăng ký nhận tin!</h3>
		<p>Bạn sẽ nhận được thông báo khi có khóa học mới.</p>
		<hr>
		<p><i>Đây là email tự động, vui lòng không trả lời.</i></p>
		`
		if err := utils.SendEmail(to, "Chào mừng bạn đến với E-Learning", body); err != nil {
			println("Lỗi gửi email:", err.Error())
		}
	}(input.Email)

	c.JSON(http.StatusCreated, gin.H{"message": "Đăng ký nhận tin thành công"})
}

// POST /api/newsletter/unsubscribe
func UnsubscribeNewsletter(c *gin.Context) {
	var input NewsletterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email không hợp lệ"})
		return
	}

	db := config.DB

	var existing models.NewsletterSubscriber
	if err := db.Where("LOWER(email) = LOWER(?)", input.Email).First(&existing).Error; err != nil {
		// Không lộ email nào có trong danh sách
		c.JSON(http.StatusOK, gin.H{"message": "Đã hủy đăng ký nhận tin"})
		return
	}

	now := time.Now()
	if err := db.Model(&existing).Update("unsubscribed_at", &now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể hủy đăng ký"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã hủy đăng ký nhận tin"})
}

// GET /api/admin/newsletter — danh sách subscriber đang hoạt động
func AdminGetSubscribers(c *gin.Context) {
	var subs []models.NewsletterSubscriber
	if err := config.DB.Where("unsubscribed_at IS NULL").Order("subscribed_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs, "total": len(subs)})
}
