package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/api/handler"
	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/livefeed"
	"campusconnect/backend/internal/matching"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/notifier"
	"campusconnect/backend/internal/storage"
	"campusconnect/backend/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(env config.Env) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(env.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Item{},
		&models.Claim{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CampusConnect Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	env := config.LoadEnv()

	if env.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(env)
	store := storage.NewStorageService(db, rdb)

	aiClient := ai.NewClient(env.GroqAPIKey, env.GroqModel)
	if aiClient.Configured() {
		log.Println("INFO: AI verification enabled")
	} else {
		log.Println("INFO: AI verification disabled, using local scoring only")
	}

	verifier := verification.NewService(store, aiClient)
	matcher := matching.NewEngine(store, aiClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := livefeed.NewHub(store)
	go hub.Run(ctx)

	notifySvc, err := notifier.NewService(store, env.TelegramToken, env.TelegramAdminChat(), env.EmailWebhookURL)
	if err != nil {
		log.Fatalf("Failed to start notifier: %v", err)
	}
	go notifySvc.Run(ctx)

	r := gin.Default()
	h := handler.NewHandler(store, verifier, matcher, aiClient, hub, env)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           env.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("INFO: Listening on %s", env.HTTPAddr)
	log.Fatal(server.ListenAndServe())
}
