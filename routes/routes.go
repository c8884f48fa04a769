package routes

import (
	"courtpro-backend/config"
	"courtpro-backend/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Installable operator console, served as static files
	r.Static("/app", "./webapp")

	api := r.Group("/api")
	{
		members := api.Group("/members")
		{
			members.POST("", controllers.CreateMember)
			members.GET("", controllers.GetMembers)
			members.GET("/:id", controllers.GetMember)
			members.PUT("/:id", controllers.UpdateMember)
			members.DELETE("/:id", controllers.DeleteMember)
			members.POST("/:id/payments", controllers.RecordPayment)
			members.GET("/:id/payments", controllers.GetMemberPayments)
			members.POST("/:id/checkout", controllers.CheckOutMember)
		}

		api.GET("/payments", controllers.GetPayments)

		children := api.Group("/children")
		{
			children.POST("", controllers.CreateChild)
			children.GET("", controllers.GetChildren)
			children.PUT("/:id", controllers.UpdateChild)
			children.POST("/:id/payments", controllers.RecordChildPayment)
			children.GET("/:id/payments", controllers.GetChildPayments)
		}

		reminders := api.Group("/reminders")
		{
			reminders.GET("/pending", controllers.GetPendingReminders)
			reminders.POST("/send", controllers.SendReminders)
			reminders.GET("/stats", controllers.GetReminderStats)
		}

		templates := api.Group("/templates")
		{
			templates.GET("", controllers.GetTemplates)
			templates.GET("/:kind", controllers.GetTemplate)
			templates.PUT("/:kind", controllers.UpdateTemplate)
		}

		messaging := api.Group("/messaging")
		{
			messaging.POST("/bulk", controllers.SendBulkMessage)
			messaging.GET("/bulk/history", controllers.GetBulkMessageHistory)
			messaging.GET("/estimate", controllers.EstimateBulkCost)
			messaging.GET("/test", controllers.TestMessagingConnection)
		}

		checkins := api.Group("/checkins")
		{
			checkins.POST("", controllers.CheckInMember)
			checkins.GET("/active", controllers.GetActiveCheckIns)
			checkins.GET("/history", controllers.GetCheckInHistory)
			checkins.GET("/analytics", controllers.GetCheckInAnalytics)
		}

		api.GET("/dashboard", controllers.GetDashboardOverview)
		api.GET("/analytics", controllers.GetAnalytics)

		export := api.Group("/export")
		{
			export.GET("/backup.zip", controllers.ExportBackupZIP)
			export.GET("/:table", controllers.ExportCSV)
		}
	}

	return r
}
