package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/imagequiz-api/internal/config"
	"github.com/yourusername/imagequiz-api/internal/handler"
	"github.com/yourusername/imagequiz-api/internal/middleware"
	"github.com/yourusername/imagequiz-api/internal/repository/localfs"
	pgRepo "github.com/yourusername/imagequiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/imagequiz-api/internal/repository/redis"
	"github.com/yourusername/imagequiz-api/internal/service"
	"github.com/yourusername/imagequiz-api/pkg/auth"
	"github.com/yourusername/imagequiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)
	templateRepo := pgRepo.NewGameTemplateRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем файловое хранилище
	fileStore, err := localfs.NewFileStore(cfg.Upload.Dir)
	if err != nil {
		log.Printf("Failed to initialize file store: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWT service: %v", err)
		os.Exit(1)
	}

	// Параметры игровой презентации
	playConfig := service.DefaultPlayConfig()
	if cfg.Play.TimeLimitSeconds > 0 {
		playConfig.TimeLimitSeconds = cfg.Play.TimeLimitSeconds
	}
	if cfg.Play.TotalTiles > 0 {
		playConfig.TotalTiles = cfg.Play.TotalTiles
	}
	if cfg.Play.RevealInterval > 0 {
		playConfig.RevealInterval = cfg.Play.RevealInterval
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	quizService := service.NewImageQuizService(gameRepo, templateRepo, userRepo, cacheRepo, fileStore, playConfig)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	quizHandler := handler.NewImageQuizHandler(quizService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	gameIDParam := middleware.ExtractUUIDParam("game_id", "gameID")

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Загруженные файлы отдаются как статика
	router.Static("/uploads", fileStore.BaseDir())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Пользователи
		usersGroup := api.Group("/users")
		usersGroup.Use(authMiddleware.RequireAuth())
		{
			usersGroup.GET("/me", userHandler.GetMe)
		}

		// Игры "image quiz"
		gamesGroup := api.Group("/games/image-quiz")
		{
			gamesGroup.POST("", authMiddleware.RequireAuth(), quizHandler.CreateGame)
			gamesGroup.GET("", authMiddleware.RequireAuth(), quizHandler.ListMyGames)

			gameGroup := gamesGroup.Group("/:game_id")
			gameGroup.Use(gameIDParam)
			{
				gameGroup.GET("", authMiddleware.RequireAuth(), quizHandler.GetGame)
				gameGroup.PATCH("", authMiddleware.RequireAuth(), quizHandler.UpdateGame)
				gameGroup.DELETE("", authMiddleware.RequireAuth(), quizHandler.DeleteGame)
				gameGroup.GET("/export", authMiddleware.RequireAuth(), quizHandler.ExportQuestions)

				gameGroup.GET("/play/public", quizHandler.PlayPublic)
				gameGroup.GET("/play/private", authMiddleware.RequireAuth(), quizHandler.PlayPrivate)

				// Проверка ответов открыта без токена, но лимитируется по IP
				gameGroup.POST("/check",
					rateLimiter.LimitByIP(middleware.CheckAnswerRateLimitConfig()),
					authMiddleware.OptionalAuth(),
					quizHandler.CheckAnswer)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
