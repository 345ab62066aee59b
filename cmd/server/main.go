package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/civicconnect-api/internal/config"
	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/database"
	"github.com/yukikurage/civicconnect-api/internal/handlers"
	"github.com/yukikurage/civicconnect-api/internal/realtime"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/scheduler"
	"github.com/yukikurage/civicconnect-api/internal/services"
	"github.com/yukikurage/civicconnect-api/internal/token"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Realtime hub, relayed through redis when configured
	hub := realtime.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	var publisher realtime.Publisher = hub
	if addr := cfg.RedisAddr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Printf("Warning: redis at %s unavailable, events stay local: %v", addr, err)
			rdb.Close()
		} else {
			relay := realtime.NewRedisRelay(rdb, hub)
			go relay.Run(hubCtx)
			publisher = relay
			defer rdb.Close()
			log.Printf("Realtime relay connected to redis at %s", addr)
		}
	}

	db := database.GetDB()
	app := newApp(cfg, db, hub, publisher)

	// Scheduler
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		s, err := scheduler.New(cfg.SchedulerSpec, app.volunteers, app.users)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched = s
		sched.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: app.router,
	}

	// Start server
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
		}
	}
	stopHub()
	<-hub.Done()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}

type app struct {
	router     *gin.Engine
	volunteers *services.VolunteerService
	users      *services.UserService
}

// newApp builds repositories, services and the router on top of db.
// Events are published through publisher and WebSocket clients register on hub.
func newApp(cfg *config.Config, db *gorm.DB, hub *realtime.Hub, publisher realtime.Publisher) *app {
	notifier := realtime.NewNotifier(publisher)

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	volunteerRepo := repository.NewVolunteerRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpiry)

	authService := services.NewAuthService(userRepo, tokens)
	complaintService := services.NewComplaintService(complaintRepo, userRepo, notifier)
	userService := services.NewUserService(userRepo, complaintRepo)
	volunteerService := services.NewVolunteerService(volunteerRepo, notifier)
	commentService := services.NewCommentService(commentRepo, complaintRepo)

	// Initialize triage service
	triageService := services.NewTriageService(cfg.OpenAIAPIKey)
	if triageService == nil {
		log.Println("OPENAI_API_KEY not set, triage suggestions disabled")
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.HeaderIdempotencyKey},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Complaints: handlers.NewComplaintHandler(complaintService, triageService),
		Users:      handlers.NewUserHandler(userService),
		Volunteers: handlers.NewVolunteerHandler(volunteerService),
		Comments:   handlers.NewCommentHandler(commentService),
		WS:         handlers.NewWSHandler(hub, tokens, cfg.ClientURL),
	}, tokens, userRepo)

	return &app{router: r, volunteers: volunteerService, users: userService}
}
