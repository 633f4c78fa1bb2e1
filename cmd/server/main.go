package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskapi/internal/config"
	"taskapi/internal/database"
	"taskapi/internal/handlers"
	"taskapi/internal/logger"
	"taskapi/internal/middleware"
	"taskapi/internal/repository"
	"taskapi/internal/services"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Init(cfg.GinMode != "release"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", err)
	}

	migrator := database.NewMigrator(database.GetDB())
	applied, err := migrator.Migrate()
	if err != nil {
		logger.Fatal("failed to run migrations", err)
	}
	logger.Info("migrations up to date", zap.Int("applied_now", len(applied)))

	repo := repository.NewTaskRepository(database.GetDB())
	service := services.NewTaskService(repo)
	taskHandler := handlers.NewTaskHandler(service, cfg)
	migrationHandler := handlers.NewMigrationHandler(migrator)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"title":   cfg.AppName,
			"version": cfg.AppVersion,
			"endpoints": gin.H{
				"GET /":                           "API information",
				"GET /health":                     "Health check",
				"GET /tasks":                      "List tasks with filtering, sorting and pagination",
				"POST /tasks":                     "Create a new task",
				"GET /tasks/:id":                  "Retrieve a task",
				"PUT /tasks/:id":                  "Update a task",
				"DELETE /tasks/:id":               "Delete a task",
				"PUT /tasks/bulk":                 "Bulk update tasks",
				"DELETE /tasks/bulk":              "Bulk delete tasks",
				"GET /tasks/statistics":           "Task statistics",
				"GET /tasks/status/:status":       "Tasks by status",
				"GET /tasks/priority/:priority":   "Tasks by priority",
				"GET /admin/migrations/status":    "Migration status",
				"POST /admin/migrations/migrate":  "Apply pending migrations",
				"POST /admin/migrations/rollback": "Roll back migrations",
			},
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"version":   cfg.AppVersion,
		})
	})

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/statistics", taskHandler.GetStatistics)
		tasks.PUT("/bulk", taskHandler.BulkUpdateTasks)
		tasks.DELETE("/bulk", taskHandler.BulkDeleteTasks)
		tasks.GET("/status/:status", taskHandler.ListTasksByStatus)
		tasks.GET("/priority/:priority", taskHandler.ListTasksByPriority)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	admin := r.Group("/admin/migrations")
	{
		admin.GET("/status", migrationHandler.Status)
		admin.POST("/migrate", migrationHandler.Migrate)
		admin.POST("/rollback", migrationHandler.Rollback)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", err)
	}
}
