package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/edemey4711/MID/config"
	"github.com/edemey4711/MID/controllers"
	"github.com/edemey4711/MID/database"
	"github.com/edemey4711/MID/models"
	"github.com/edemey4711/MID/services"
)

func main() {
	cfg := config.Load()

	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if err := database.Connect(cfg.DBPath); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := services.InitStorage(cfg); err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	if err := controllers.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to bootstrap admin account")
	}

	r := setupRouter(cfg)

	log.WithField("port", cfg.ServerPort).Info("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.WithError(err).Fatal("server interrupted")
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(limitBody(cfg.MaxUploadBytes))

	// local backend serves uploads/ directly; minio hands out presigned URLs
	if local, ok := services.Store.(*services.LocalStore); ok {
		r.Static("/uploads", local.Root())
	}

	api := r.Group("/api")
	api.POST("/login", controllers.Login)
	api.POST("/logout", controllers.Logout)
	api.GET("/images", controllers.ListImages)
	api.GET("/images/:id", controllers.GetImage)

	editors := api.Group("", controllers.RequireRole(models.RoleAdmin, models.RoleUploader))
	editors.POST("/images", controllers.UploadImage)
	editors.PUT("/images/:id", controllers.UpdateImage)
	editors.DELETE("/images/:id", controllers.DeleteImage)

	admin := api.Group("/users", controllers.RequireRole(models.RoleAdmin))
	admin.POST("", controllers.CreateUser)

	return r
}

// limitBody caps the request body so oversized uploads fail early.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
