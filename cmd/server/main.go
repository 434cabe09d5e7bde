package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/storage"
	"github.com/benbeisheim/checkers-backend/internal/storage/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(cfg.Level())

	var store storage.GameStore
	if cfg.DBPath != "" {
		sqliteStore, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("open game store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		log.Infof("snapshotting games to %s", cfg.DBPath)
	}

	// Initialize services
	gameManager := service.NewGameManager(store)
	gameService := service.NewGameService(gameManager)

	app := newApp(cfg, gameService)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: cfg.AllowCredentials(),
	}))

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Get("/ws/game/:gameId", middleware.EnsureGameID(), middleware.WebSocketUpgrade(), websocket.New(
		wsController.HandleConnection,
		websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         cfg.AllowedOrigins,
		},
	))

	// Set up REST routes
	gameRoutes := app.Group("/api/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", middleware.EnsureGameID(), gameController.GetGameState)
	gameRoutes.Delete("/:gameId", middleware.EnsureGameID(), gameController.DeleteGame)
	gameRoutes.Get("/:gameId/view", middleware.EnsureGameID(), gameController.GetBoardView)
	gameRoutes.Get("/:gameId/moves", middleware.EnsureGameID(), gameController.GetPossibleMoves)
	gameRoutes.Post("/:gameId/click", middleware.EnsureGameID(), gameController.Click)
	gameRoutes.Post("/:gameId/move", middleware.EnsureGameID(), gameController.Move)
	gameRoutes.Post("/:gameId/reset", middleware.EnsureGameID(), gameController.Reset)

	return app
}
