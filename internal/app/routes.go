package app

import (
	"github.com/gin-gonic/gin"
	"github.com/tsundoku-app/core/internal/middleware"
	"github.com/tsundoku-app/core/internal/modules/books"
	"github.com/tsundoku-app/core/internal/modules/googlebooks"
	"github.com/tsundoku-app/core/internal/modules/reason"
	"github.com/tsundoku-app/core/internal/modules/recommend"
	"github.com/tsundoku-app/core/internal/modules/tasks/crontask"
	"github.com/tsundoku-app/core/internal/modules/users"
	"github.com/tsundoku-app/core/internal/pkg/genai"
	"github.com/tsundoku-app/core/internal/pkg/mail"
	pkgredis "github.com/tsundoku-app/core/internal/pkg/redis"
	"github.com/tsundoku-app/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

// registerRoutes builds all services and mounts every module's routes.
// The recommendation service is returned so the cron jobs can reuse it.
func (a *App) registerRoutes(rc *pkgredis.Client, mailer *mail.Sender) *recommend.Service {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	metadataClient := googlebooks.New(a.cfg.GoogleBooks, a.logger)
	genClient := genai.New(a.cfg.OpenAI, a.logger)
	predictor := reason.NewPredictor(genClient, a.logger)

	usersSvc := users.NewService(db)
	booksSvc := books.NewService(db, metadataClient, predictor, a.logger)
	recommendSvc := recommend.NewService(db, mailer, a.cfg.Recommendation, a.logger)

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())

	api.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{"message": "pong"})
	})

	users.NewHandler(usersSvc).RegisterRoutes(api, authMW)
	books.NewHandler(booksSvc).RegisterRoutes(api, authMW)
	recommend.NewHandler(recommendSvc).RegisterRoutes(api, authMW)
	crontask.NewHandler(a.sched).RegisterRoutes(api, authMW)

	return recommendSvc
}
