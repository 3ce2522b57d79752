package main

import (
	"context"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/controllers"
	"github.com/kendall-kelly/servicemen-api/middleware"
	"github.com/kendall-kelly/servicemen-api/migrations"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/utils"
)

func main() {
	log.Println("Starting Servicemen API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Apply schema migrations and the permission seed
	if err := migrations.Up(config.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitTokenService(cfg.JWTPrivateKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL); err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	if err := initImageService(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initImageService selects S3 when a bucket is configured and the upload directory otherwise
func initImageService(ctx context.Context, cfg *config.Config) error {
	if cfg.UsesS3() {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			return err
		}
		services.InitImageService(s3Service)
		log.Printf("Storing images in S3 bucket %s", cfg.AWSS3Bucket)
		return nil
	}

	utils.UploadDir = cfg.UploadDir
	services.InitLocalImageService(cfg.UploadDir)
	log.Printf("Storing images in %s", cfg.UploadDir)
	return nil
}

// setupRouter builds the API router
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", controllers.SignUp)
			auth.POST("/sign-in", controllers.SignIn)
		}

		if !cfg.UsesS3() {
			v1.GET("/uploads/:filename", controllers.GetUploadedImage)
		}

		protected := v1.Group("", middleware.EnsureValidToken(cfg))
		{
			me := protected.Group("/servicemen/me")
			me.GET("", controllers.GetMyProfile)
			me.PUT("", controllers.UpdateMyProfile)
			me.POST("/image", controllers.UploadProfileImage)
			me.PUT("/service-station", controllers.JoinServiceStation)
			me.DELETE("/service-station", controllers.LeaveServiceStation)

			stations := protected.Group("/service-stations")
			stations.POST("", controllers.CreateServiceStation)
			stations.GET("", controllers.ListServiceStations)
			stations.GET("/:id/servicemen", controllers.ListServiceStationServicemen)

			protected.GET("/permissions", controllers.ListPermissions)
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Servicemen API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	version, _, err := migrations.Version(db)
	if err != nil {
		log.Printf("Failed to read migration version: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Database connected",
		"tables":           tables,
		"migrationVersion": version,
	})
}
