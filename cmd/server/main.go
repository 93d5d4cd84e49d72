package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carenestapp/carenest/internal/config"
	"github.com/carenestapp/carenest/internal/handler"
	"github.com/carenestapp/carenest/internal/middleware"
	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/internal/repository"
	"github.com/carenestapp/carenest/internal/service"
	"github.com/carenestapp/carenest/migrations"
	"github.com/carenestapp/carenest/pkg/auth"
	"github.com/carenestapp/carenest/pkg/mailer"
	"github.com/carenestapp/carenest/pkg/push"
	"github.com/carenestapp/carenest/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           CareNest Messaging API
// @version         1.0
// @description     Caregiver-parent messaging: direct conversations, care groups, attachments, notifications.

// @contact.name   API Support
// @contact.email  support@carenest.app

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting CareNest API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		// Fallback to AutoMigrate if migration files fail
		if err := db.AutoMigrate(
			&model.User{},
			&model.UserDevice{},
			&model.DirectMessage{},
			&model.CareGroup{},
			&model.GroupMessage{},
			&model.Attachment{},
			&model.CaregiverContact{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Email (SMTP / Mailpit) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)

	// ==================== Initialize Layers ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Push (FCM). Disabled when no credentials file is configured.
	pushService, err := push.NewService(cfg.FCM.CredentialsFile, userRepo)
	if err != nil {
		log.Printf("⚠️  FCM not available: %v (push notifications disabled)", err)
	}
	if pushService != nil {
		log.Println("✅ FCM push configured")
	}

	// MinIO Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Fatalf("❌ MinIO not available: %v (attachments require object storage)", err)
	}
	log.Println("✅ Connected to MinIO")

	// Services
	guard := service.NewGuard(msgRepo, groupRepo)
	attachmentService := service.NewAttachmentService(minioStorage)
	notifyService := service.NewNotifyService(userRepo, mailClient, pushService)
	chatService := service.NewChatService(msgRepo, guard, attachmentService, notifyService)
	groupService := service.NewGroupService(groupRepo, msgRepo, contactRepo, userRepo, guard, attachmentService, notifyService)
	retentionService := service.NewRetentionService(msgRepo, groupRepo, attachmentService, cfg.Retention.Days)

	// Notification worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notifyService.Run(workerCtx)

	// Retention schedule: one sweep shortly after boot, then on the interval
	sweepTimer := time.AfterFunc(cfg.Retention.InitialDelay, func() {
		retentionService.Sweep(workerCtx)
	})
	defer sweepTimer.Stop()

	scheduler := cron.New()
	scheduler.Schedule(cron.Every(cfg.Retention.Interval), cron.FuncJob(func() {
		retentionService.Sweep(workerCtx)
	}))
	scheduler.Start()
	log.Printf("📦 Retention: keeping images %d days, sweeping every %s", cfg.Retention.Days, cfg.Retention.Interval)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService)
	groupHandler := handler.NewGroupHandler(groupService)
	contactHandler := handler.NewContactHandler(groupService)
	deviceHandler := handler.NewDeviceHandler(userRepo)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "carenest-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Direct messages
			protected.POST("/messages", chatHandler.SendMessage)
			protected.GET("/conversations", chatHandler.GetConversations)
			protected.GET("/conversations/:key/messages", chatHandler.GetMessages)
			protected.POST("/conversations/:key/read", chatHandler.MarkAsRead)
			protected.DELETE("/conversations/:key", chatHandler.DeleteConversation)

			// Care groups
			protected.POST("/groups", groupHandler.CreateGroup)
			protected.GET("/groups", groupHandler.GetGroups)
			protected.GET("/groups/suggestions", groupHandler.GetSuggestions)
			protected.GET("/groups/:id", groupHandler.GetGroup)
			protected.POST("/groups/:id/messages", groupHandler.SendGroupMessage)
			protected.GET("/groups/:id/messages", groupHandler.GetGroupMessages)
			protected.POST("/groups/:id/read", groupHandler.MarkGroupAsRead)
			protected.POST("/groups/:id/mute", groupHandler.MuteGroup)
			protected.DELETE("/groups/:id/mute", groupHandler.UnmuteGroup)
			protected.POST("/groups/:id/leave", groupHandler.LeaveGroup)
			protected.PATCH("/groups/:id/participants", groupHandler.UpdateParticipants)

			// Contacts
			protected.POST("/contacts", contactHandler.AddContact)
			protected.GET("/contacts", contactHandler.GetContacts)
			protected.DELETE("/contacts/:parent_id", contactHandler.RemoveContact)

			// Devices & notification settings
			protected.POST("/devices", deviceHandler.RegisterDevice)
			protected.POST("/devices/remove", deviceHandler.UnregisterDevice)
			protected.PUT("/me/notifications", deviceHandler.UpdateNotificationSetting)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 CareNest API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	scheduler.Stop()

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	workerCancel()
	log.Println("✅ Server exited gracefully")
}
