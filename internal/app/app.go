package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pairchat/internal/db"
	"pairchat/internal/handlers"
	"pairchat/internal/repository"
	"pairchat/internal/services"
	"pairchat/internal/session"
	"pairchat/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func Run() {
	if err := utils.LoadEnv(); err != nil {
		log.Println("Warning: .env file not found")
	}

	connString := utils.GetEnv("DATABASE_URL", "")
	if connString == "" {
		// Fallback to individual vars
		connString = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "pairchat") + "?sslmode=disable"
	}

	ctx := context.Background()
	if err := db.Init(ctx, connString); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Wiring
	roomRepo := repository.NewPostgresRoomRepo(db.Pool)
	messageRepo := repository.NewPostgresMessageRepo(db.Pool)
	sessions := session.NewManager()
	chatService := services.NewChatService(
		services.NewRoomResolver(roomRepo),
		services.NewMessageStore(roomRepo, messageRepo),
		sessions,
	)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Get("/ws", handlers.WebSocketHandler(chatService, sessions))

	port := utils.GetEnv("PORT", "3000")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()
	log.Printf("Server running on port %s", port)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	log.Println("Server shutdown complete")
}
