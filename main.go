package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"courtpro-backend/config"
	"courtpro-backend/controllers"
	"courtpro-backend/models"
	"courtpro-backend/routes"
	"courtpro-backend/services"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}
	config.Load()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Member{},
		&models.Payment{},
		&models.Child{},
		&models.ChildPayment{},
		&models.MessageTemplate{},
		&models.ReminderLog{},
		&models.CheckIn{},
		&models.BulkMessageLog{},
	)

	seedTemplates()
}

func main() {
	controllers.Messaging = services.NewMessageService(config.C)

	if config.C.AutoReminders {
		services.StartReminderScheduler(config.DB, controllers.Messaging, config.C)
	}

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + config.C.Port)
}

// seedTemplates inserts the default message bodies for any kind that has
// no row yet. Operator edits are never overwritten.
func seedTemplates() {
	for kind, body := range models.DefaultTemplates {
		var existing models.MessageTemplate
		if err := config.DB.Where("kind = ?", kind).First(&existing).Error; err == nil {
			continue
		}
		template := models.MessageTemplate{Kind: kind, Body: body}
		if err := config.DB.Create(&template).Error; err != nil {
			log.WithError(err).WithField("kind", kind).Error("failed to seed template")
		}
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
