package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"traininglog/api/internal/cache"
	"traininglog/api/internal/config"
	"traininglog/api/internal/middleware"
	"traininglog/api/internal/repository"
	"traininglog/api/internal/security"
	"traininglog/api/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	backend   *repository.Backend
	tokens    *security.TokenIssuer
	denylist  *cache.TokenDenylist
	auth      *service.AuthService
	calendar  *service.CalendarService
	exercises *service.ExerciseService
	types     *service.SessionTypeService
	export    *service.ExportService
}

// NewHandlerSet wires the services over backend. objects may be nil, in
// which case exports are disabled.
func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	backend *repository.Backend,
	denylist *cache.TokenDenylist,
	objects service.ObjectStore,
	authOpts ...service.AuthOption,
) HandlerSet {
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	calendar := service.NewCalendarService(backend.Calendar, log)
	exercises := service.NewExerciseService(backend.Exercises, log)
	types := service.NewSessionTypeService(backend.SessionTypes, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		backend:   backend,
		tokens:    tokens,
		denylist:  denylist,
		auth:      service.NewAuthService(backend.Users, tokens, log, authOpts...),
		calendar:  calendar,
		exercises: exercises,
		types:     types,
		export:    service.NewExportService(calendar, exercises, types, objects, cfg.Storage.PresignTTL, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.POST("/register", h.RegisterUser)
	router.POST("/login", h.Login)

	protected := router.Group("")
	protected.Use(middleware.Auth(h.tokens, h.denylist, h.log))
	{
		protected.GET("/protected", h.Protected)
		protected.POST("/logout", h.Logout)

		protected.GET("/calendar", h.ListCalendar)
		protected.GET("/calendar/:date", h.ListDay)
		protected.POST("/calendar/:date", h.AddSession)
		protected.PUT("/calendar/:date/:idx", h.UpdateSession)
		protected.DELETE("/calendar/:date/:idx", h.DeleteSession)

		protected.GET("/exercises", h.ListExercises)
		protected.POST("/exercises", h.CreateExercise)
		protected.PUT("/exercises/:id", h.UpdateExercise)
		protected.DELETE("/exercises/:id", h.DeleteExercise)

		protected.GET("/session_types", h.ListSessionTypes)
		protected.POST("/session_types", h.CreateSessionType)
		protected.PUT("/session_types/:id", h.UpdateSessionType)
		protected.DELETE("/session_types/:id", h.DeleteSessionType)

		protected.POST("/export", h.Export)
	}
}
