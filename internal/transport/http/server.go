package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "ponder/internal/app"
	"ponder/internal/bootstrap"
	"ponder/internal/cache"
	"ponder/internal/repository"
	"ponder/internal/transport/http/handler"
	"ponder/internal/transport/http/middleware"
	"ponder/internal/transport/http/response"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	userRepo := repository.NewUserRepository(app.DB)
	questionRepo := repository.NewQuestionRepository(app.DB)
	thoughtRepo := repository.NewThoughtRepository(app.DB)
	seriesRepo := repository.NewSeriesRepository(app.DB)

	var catalogCache appsvc.CatalogCache
	if app.Redis != nil {
		catalogCache = cache.NewCatalogCache(app.Redis, time.Duration(app.Config.Redis.CatalogTTLSeconds)*time.Second)
	}

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireHour)*time.Hour,
		app.Config.Auth.BcryptCost,
	)
	questionService := appsvc.NewQuestionService(app.DB, questionRepo, thoughtRepo, seriesRepo, catalogCache)
	thoughtService := appsvc.NewThoughtService(thoughtRepo, questionRepo)
	seriesService := appsvc.NewSeriesService(app.DB, seriesRepo, questionRepo)

	authHandler := handler.NewAuthHandler(authService)
	questionHandler := handler.NewQuestionHandler(questionService)
	thoughtHandler := handler.NewThoughtHandler(thoughtService)
	adminHandler := handler.NewAdminHandler(questionService)
	seriesHandler := handler.NewSeriesHandler(seriesService)
	healthHandler := handler.NewHealthHandler(app)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, userRepo)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Check)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	questionsGroup := api.Group("/questions", authRequired)
	questionsGroup.GET("", questionHandler.List)
	questionsGroup.GET("/categories", questionHandler.Categories)
	questionsGroup.GET("/:id", questionHandler.GetByID)

	thoughtsGroup := api.Group("/thoughts", authRequired)
	thoughtsGroup.GET("/question/:questionId", thoughtHandler.ListByQuestion)
	thoughtsGroup.POST("", thoughtHandler.Create)
	thoughtsGroup.PUT("/:id", thoughtHandler.Update)
	thoughtsGroup.DELETE("/:id", thoughtHandler.Delete)

	adminGroup := api.Group("/admin", authRequired)
	adminGroup.POST("/questions", adminHandler.CreateQuestion)
	adminGroup.PUT("/questions/:id", adminHandler.UpdateQuestion)
	adminGroup.DELETE("/questions/:id", adminHandler.DeleteQuestion)
	adminGroup.POST("/questions/batch-import", adminHandler.BatchImport)
	adminGroup.POST("/questions/ai-generate", adminHandler.AIGenerate)

	seriesGroup := api.Group("/series", authRequired)
	seriesGroup.GET("", seriesHandler.List)
	seriesGroup.POST("", seriesHandler.Create)
	seriesGroup.GET("/:id", seriesHandler.GetByID)
	seriesGroup.PUT("/:id", seriesHandler.Update)
	seriesGroup.DELETE("/:id", seriesHandler.Delete)
	seriesGroup.GET("/:id/questions", seriesHandler.ListQuestions)
	seriesGroup.POST("/:id/questions", seriesHandler.AddQuestion)
	seriesGroup.PUT("/:id/questions/order", seriesHandler.UpdateOrder)
	seriesGroup.DELETE("/:id/questions/:questionId", seriesHandler.RemoveQuestion)

	registerSPA(router, app.Config.App.WebDir)

	return router
}

// registerSPA serves the built frontend from webDir and falls back to the
// SPA shell for any non-API path, so client-side routes deep-link cleanly.
func registerSPA(router *gin.Engine, webDir string) {
	indexPath := filepath.Join(webDir, "index.html")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			response.Error(c, http.StatusNotFound, "not found")
			return
		}

		requested := filepath.Join(webDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}
		if _, err := os.Stat(indexPath); err == nil {
			c.File(indexPath)
			return
		}
		response.Error(c, http.StatusNotFound, "not found")
	})
}
