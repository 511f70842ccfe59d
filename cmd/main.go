package main

import (
	"crypto/tls"
	"log"
	"net/http"
	"os"

	"gamereview/cache"
	"gamereview/db"
	"gamereview/handlers"
	"gamereview/middleware"
	"gamereview/monitoring"
	"gamereview/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	utils.InitLogger()
	monitoring.InitMetrics()
	db.InitDB()

	if err := cache.InitRedis(); err != nil {
		utils.Log.Warn("Redis unavailable, caching disabled: ", err)
	}
	defer cache.CloseRedis()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(monitoring.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Public routes
	r.POST("/auth/signup", handlers.Signup)
	r.POST("/auth/login", handlers.Login)
	r.GET("/games", handlers.GetGames)
	r.GET("/games/search", handlers.SearchGames)
	r.GET("/games/:id", handlers.GetGameByID)
	r.GET("/games/:id/reviews", handlers.GetGameReviews)
	r.GET("/reviews/:id/comments", handlers.GetReviewComments)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/health", handlers.HealthCheck)

	// Authenticated routes
	protected := r.Group("/", handlers.AuthMiddleware())
	{
		protected.GET("/reviews", handlers.GetMyReviews)
		protected.POST("/games/:id/reviews", handlers.CreateReview)
		protected.PUT("/reviews/:id", handlers.UpdateReview)
		protected.DELETE("/reviews/:id", handlers.DeleteReview)
		protected.GET("/comments", handlers.GetMyComments)
		protected.POST("/reviews/:id/comments", handlers.CreateComment)
		protected.PUT("/comments/:id", handlers.UpdateComment)
		protected.DELETE("/comments/:id", handlers.DeleteComment)
	}

	// Catalog writes, admins only
	catalog := r.Group("/games", handlers.AuthMiddleware(), handlers.AdminOnly())
	{
		catalog.POST("", handlers.CreateGame)
		catalog.PUT("/:id", handlers.UpdateGame)
		catalog.DELETE("/:id", handlers.DeleteGame)
	}

	// User directory and dashboard, admins only
	admin := r.Group("/admin", handlers.AuthMiddleware(), handlers.AdminOnly())
	{
		admin.GET("/users", handlers.GetUsers)
		admin.PUT("/users/:id", handlers.UpdateUserRole)
		admin.GET("/stats", handlers.GetDashboardStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	useHTTPS := os.Getenv("USE_HTTPS") == "true"
	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")

	if useHTTPS && certFile != "" && keyFile != "" {
		utils.Log.Info("Starting server with HTTPS on port ", port)

		tlsConfig := &tls.Config{
			MinVersion:       tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
		}

		server := &http.Server{
			Addr:      ":" + port,
			Handler:   r,
			TLSConfig: tlsConfig,
		}

		if err := server.ListenAndServeTLS(certFile, keyFile); err != nil {
			utils.Log.Fatal("Failed to start HTTPS server: ", err)
		}
	} else {
		utils.Log.Info("Starting server with HTTP on port ", port)

		if err := r.Run(":" + port); err != nil {
			utils.Log.Fatal("Failed to start server: ", err)
		}
	}
}
