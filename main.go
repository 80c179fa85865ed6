package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"office_web/internal/api"
	"office_web/internal/config"
	"office_web/internal/models"
	"office_web/internal/repository"
	"office_web/internal/service"
	"office_web/internal/storage"
	"office_web/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.SetSecret(cfg.JWT.Secret)

	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.ChatMember{},
		&models.ChatMessage{},
		&models.MeetingRoom{},
		&models.MeetingParticipant{},
		&models.MeetingMessage{},
	); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	r := gin.Default()
	api.SetupRoutes(r, services)

	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
