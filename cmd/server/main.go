// cmd/server/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	_ "teamspace-api/docs" // Required for Swagger
	"teamspace-api/internal/api"
	"teamspace-api/internal/api/handlers"
	"teamspace-api/internal/auth"
	"teamspace-api/internal/config"
	"teamspace-api/internal/mailer"
	"teamspace-api/internal/membership"
	"teamspace-api/internal/ratelimit"
	"teamspace-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title           Teamspace API
// @version         1.0
// @description     Multi-tenant workspace and authentication API

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                         header
// @name                       Authorization
func main() {

	gin.SetMode(gin.ReleaseMode)

	f, _ := os.Create("gin.log")
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)

	// Load configuration from .env
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create database configuration
	dbConfig := storage.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	}

	// Create database if it doesn't exist
	rootDb, err := storage.NewDB(storage.Config{
		Host:     dbConfig.Host,
		Port:     dbConfig.Port,
		User:     dbConfig.User,
		Password: dbConfig.Password,
		DBName:   "",
	})
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}

	_, err = rootDb.Exec("CREATE DATABASE IF NOT EXISTS " + dbConfig.DBName)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	rootDb.Close()

	// Connect to the application database
	db, err := storage.NewDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rateLimiter, err := ratelimit.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer rateLimiter.Close()

	sessions := auth.NewSessions(cfg.JWT.Secret, cfg.JWT.SessionTTL, auth.NewRedisDenylist(rateLimiter.Client()))
	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.Tokens.VerificationMaxAge, cfg.Tokens.ResetMaxAge, auth.NewRedisConsumedStore(rateLimiter.Client()))

	var m mailer.Mailer
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Printf("SMTP not configured, logging outbound mail instead")
		m = mailer.LogMailer{}
	}

	authority := membership.NewAuthority(db)
	h := handlers.NewHandler(db, sessions, tokens, m, authority, cfg.Server.BaseURL)

	// Set up and start the server
	router := api.SetupRouter(db, rateLimiter, sessions, h, authority)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	if cfg.Env == "development" {
		log.Printf("Server starting on http://localhost%s", serverAddr)
		log.Printf("Swagger UI available at http://localhost%s/swagger/index.html", serverAddr)
	}

	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
