package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mines-rewards-backend/internal/config"
	"mines-rewards-backend/internal/handlers"
	"mines-rewards-backend/internal/middleware"
	"mines-rewards-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	if err := redisService.SeedOperators(context.Background(), cfg.OperatorIDs); err != nil {
		log.Fatalf("Failed to seed operators: %v", err)
	}

	jwtService := services.NewJWTService(cfg)

	paytable, err := services.NewPaytable()
	if err != nil {
		log.Fatalf("Invalid paytable: %v", err)
	}

	gridGenerator := services.NewGridGenerator(time.Now().UnixNano())
	biasResolver := services.NewBiasResolver(redisService)

	gameEngine := services.NewGameEngine(redisService, redisService, biasResolver, gridGenerator, paytable)
	gameEngine.SetCreditQueue(redisService)
	gameEngine.SetTransactionLog(redisService)

	wsHandler := handlers.NewWebSocketHandler(redisService)
	gameEngine.SetBroadcaster(wsHandler)

	adminController := services.NewAdminController(redisService, redisService)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			gameEngine.CleanupStaleSessions(context.Background(), cfg.SessionIdleTimeout)
			gameEngine.FlushPendingCredits(context.Background())
		}
	}()

	authHandler := handlers.NewAuthHandler(redisService, jwtService, cfg.AuthSecret)
	userHandler := handlers.NewUserHandler(redisService)
	gameHandler := handlers.NewGameHandler(gameEngine, redisService)
	adminHandler := handlers.NewAdminHandler(adminController)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/token", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.GET("/balance", gameHandler.GetBalance)
			games.GET("/active", gameHandler.GetActiveGame)
			games.GET("/history", gameHandler.GetGameHistory)
			games.GET("/transactions", gameHandler.GetTransactions)

			mines := games.Group("/mines")
			{
				mines.POST("/start", gameHandler.Start)
				mines.POST("/reveal", gameHandler.Reveal)
				mines.POST("/cashout", gameHandler.Cashout)
			}
		}

		admin := protected.Group("/admin")
		{
			admin.GET("/overrides", adminHandler.ListOverrides)
			admin.POST("/overrides", adminHandler.SetOverride)
			admin.DELETE("/overrides/:player_id", adminHandler.RemoveOverride)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
