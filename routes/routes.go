package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/e-learning-backend/controllers"
	"github.com/vnkhanh/e-learning-backend/middleware"
	"github.com/vnkhanh/e-learning-backend/services"
	"github.com/vnkhanh/e-learning-backend/ws"
	"gorm.io/gorm"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	enrollmentCtrl := controllers.NewEnrollmentController(
		services.NewEnrollmentService(services.NewGormEnrollmentStore(db)),
	)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	// Catalog public: nội dung chi tiết gate theo enrollment,
	// anonymous vẫn xem được metadata khóa học
	courses := api.Group("/courses")
	{
		courses.Use(middleware.OptionalAuthMiddleware())
		courses.GET("", controllers.GetCourses)
		courses.GET("/:id", controllers.GetCourseDetail)
		courses.POST("/:id/enroll", enrollmentCtrl.Enroll)
		courses.GET("/:id/enroll", enrollmentCtrl.GetStatus)
	}

	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", controllers.SubscribeNewsletter)
		newsletter.POST("/unsubscribe", controllers.UnsubscribeNewsletter)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		user.GET("/enrollments", controllers.GetMyEnrollments)

		// Help center
		user.POST("/tickets", controllers.CreateTicket)
		user.GET("/tickets", controllers.GetMyTickets)
		user.GET("/tickets/:id", controllers.GetTicketDetail)
		user.POST("/tickets/:id/reply", controllers.ReplyTicket)

		// Thông báo
		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationAsRead)
		user.PATCH("/notifications/read-all", controllers.MarkAllAsRead)
		user.DELETE("/notifications/:id", controllers.DeleteNotification)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db), middleware.RequireRoles("admin", "teacher"))

		// Quản lý khóa học
		admin.POST("/courses", controllers.CreateCourse)
		admin.GET("/courses", controllers.AdminGetCourses)
		admin.GET("/courses/:id", controllers.AdminGetCourseDetail)
		admin.PUT("/courses/:id", controllers.UpdateCourse)
		admin.DELETE("/courses/:id", controllers.DeleteCourse)
		admin.PATCH("/courses/:id/toggle-status", controllers.ToggleCourseStatus)

		// Media
		admin.POST("/courses/:id/thumbnail", controllers.UploadCourseThumbnail)
		admin.POST("/courses/:id/videos", controllers.UploadCourseVideo)
		admin.POST("/courses/:id/pdfs", controllers.UploadCoursePDF)
		admin.DELETE("/videos/:id", controllers.DeleteCourseVideo)
		admin.DELETE("/pdfs/:id", controllers.DeleteCoursePDF)

		// Quản lý ticket hỗ trợ
		admin.GET("/tickets", controllers.AdminGetTickets)
		admin.POST("/tickets/:id/reply", controllers.AdminReplyTicket)
		admin.PATCH("/tickets/:id/close", controllers.AdminCloseTicket)

		// Tài khoản giảng viên + newsletter
		admin.POST("/lecturers", controllers.AdminCreateLecturer)
		admin.GET("/newsletter", controllers.AdminGetSubscribers)
	}

	r.GET("/ws/course/:id", ws.HandleCourseWebSocket)
	r.GET("/ws/user", ws.HandleUserWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
