package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-learning-backend/models"
	"github.com/vnkhanh/e-learning-backend/utils"
	"github.com/vnkhanh/e-learning-backend/ws"
)

// Gửi thông báo realtime + lưu DB khi ticket có trả lời
func notifyTicketReply(db *gorm.DB, userID uuid.UUID, title, message string, ticketID uuid.UUID) {
	notif := models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     "ticket_reply",
		TicketID: &ticketID,
	}
	db.Create(&notif)

	data := map[string]interface{}{
		"type":      "ticket_reply",
		"title":     title,
		"message":   message,
		"ticket_id": ticketID.String(),
		"id":        notif.ID.String(),
	}
	jsonData, _ := json.Marshal(data)
	ws.H.BroadcastToUser(userID.String(), websocket.TextMessage, jsonData)

	// Cập nhật badge số lượng chưa đọc
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDValue, _ := c.Get("user_id")
	switch v := userIDValue.(type) {
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	case uuid.UUID:
		return v, true
	default:
		return uuid.Nil, false
	}
}

type CreateTicketInput struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// POST /api/user/tickets
func CreateTicket(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}

	var input CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket := models.SupportTicket{
		UserID:  userID,
		Subject: input.Subject,
		Message: input.Message,
		Status:  models.TicketOpen,
	}
	if err := db.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo ticket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo ticket thành công",
		"ticket":  ticket,
	})
}

// GET /api/user/tickets — ticket của user đang đăng nhập
func GetMyTickets(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}

	var tickets []models.SupportTicket
	if err := db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GET /api/user/tickets/:id — chi tiết kèm replies, chỉ chủ ticket hoặc staff
func GetTicketDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.SupportTicket
	if err := db.
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies.User", func(db *gorm.DB) *gorm.DB { return db.Select("id, full_name, role") }).
		First(&ticket, "id = ?", ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	role := c.GetString("role")
	isStaff := role == string(models.RoleAdmin) || role == string(models.RoleLecturer)
	if ticket.UserID != userID && !isStaff {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xem ticket này"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

type ReplyTicketInput struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/user/tickets/:id/reply — chủ ticket trả lời thêm
func ReplyTicket(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var input ReplyTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ticket models.SupportTicket
	if err := db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	if ticket.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền trả lời ticket này"})
		return
	}
	if ticket.Status == models.TicketClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket đã đóng"})
		return
	}

	reply := models.TicketReply{
		TicketID: ticketID,
		UserID:   userID,
		Message:  input.Message,
		IsStaff:  false,
	}
	if err := db.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo trả lời"})
		return
	}

	// User trả lời tiếp -> ticket quay lại trạng thái chờ xử lý
	db.Model(&ticket).Update("status", models.TicketOpen)

	c.JSON(http.StatusCreated, gin.H{"message": "Đã gửi trả lời", "reply": reply})
}

// GET /api/admin/tickets — toàn bộ ticket, lọc theo trạng thái
func AdminGetTickets(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.SupportTicket{}).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id, full_name, email") })

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := query.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// POST /api/admin/tickets/:id/reply — staff trả lời, gửi thông báo + email
func AdminReplyTicket(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	staffID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var input ReplyTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ticket models.SupportTicket
	if err := db.Preload("User").First(&ticket, "id = ?", ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	reply := models.TicketReply{
		TicketID: ticketID,
		UserID:   staffID,
		Message:  input.Message,
		IsStaff:  true,
	}
	if err := db.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo trả lời"})
		return
	}

	db.Model(&ticket).Update("status", models.TicketAnswered)

	// Thông báo realtime cho chủ ticket
	notifyTicketReply(db, ticket.UserID,
		"Ticket của bạn đã được trả lời",
		"Ticket \""+ticket.Subject+"\" có phản hồi mới từ bộ phận hỗ trợ",
		ticketID)

	// Gửi email thông báo (không chặn luồng)
	go func(to, subject, message string) {
		body := `
		<h3>Ticket của bạn đã được trả lời</h3>
		<p><b>Tiêu đề:</b> ` + subject + `</p>
		<p><b>Phản hồi:</b> ` + message + `</p>
		<hr>
		<p><i>Đây là email tự động, vui lòng không trả lời.</i></p>
		`
		if err := utils.SendEmail(to, "Phản hồi ticket hỗ trợ: "+subject, body); err != nil {
			println("Lỗi gửi email:", err.Error())
		}
	}(ticket.User.Email, ticket.Subject, input.Message)

	c.JSON(http.StatusCreated, gin.H{"message": "Đã gửi trả lời", "reply": reply})
}

// PATCH /api/admin/tickets/:id/close
func AdminCloseTicket(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var ticket models.SupportTicket
	if err := db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	if err := db.Model(&ticket).Update("status", models.TicketClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đóng ticket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã đóng ticket"})
}
