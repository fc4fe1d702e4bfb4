package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"muawin-server/internal/config"
	"muawin-server/internal/handlers"
	"muawin-server/internal/llm"
	"muawin-server/internal/middleware"
	"muawin-server/internal/models"
	"muawin-server/internal/storage"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Logger   *zap.Logger
	LLM      llm.Completer
	Renderer handlers.DocumentRenderer
	Store    storage.Store
	// Checks are pinged by /readyz in addition to the database.
	Checks map[string]handlers.HealthChecker
}

// NewRouter builds the engine with the global middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{d.Cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(
		middleware.RequestLogger(d.Logger),
		gin.Recovery(),
		middleware.LimitBodySize(d.Cfg.MaxBodyBytes),
		cors.New(corsConfig),
		gzip.Gzip(gzip.DefaultCompression),
	)

	SetupRoutes(router, d)
	return router
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.DB, d.Cfg)
	doctorHandler := handlers.NewDoctorHandler(d.DB)
	patientHandler := handlers.NewPatientHandler(d.DB)
	generationHandler := handlers.NewGenerationHandler(d.LLM, d.Logger)
	sessionHandler := handlers.NewSessionHandler(d.DB, d.LLM, d.Renderer, d.Store, d.Logger)
	consultationHandler := handlers.NewConsultationHandler(d.DB, d.Renderer, d.Store, d.Logger)
	specialistHandler := handlers.NewSpecialistHandler(d.DB)
	referralHandler := handlers.NewReferralHandler(d.DB)
	translateHandler := handlers.NewTranslateHandler(d.DB, d.LLM, d.Logger)

	checks := map[string]handlers.HealthChecker{"db": handlers.DBChecker{DB: d.DB}}
	for name, check := range d.Checks {
		checks[name] = check
	}
	healthHandler := handlers.NewHealthHandler(checks)

	router.GET("/healthz", healthHandler.Live)
	router.GET("/readyz", healthHandler.Ready)

	// Public routes
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.POST("/logout", authHandler.Logout)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(d.Cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		doctorRoutes := private.Group("/doctors")
		doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			doctorRoutes.POST("", doctorHandler.CreateDoctor)
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.PUT("/:id", doctorHandler.UpdateDoctor)
			doctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
		}

		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
		}
		private.GET("/symptoms", patientHandler.GetSymptoms)

		private.POST("/generate-diagnosis", generationHandler.GenerateDiagnosis)
		private.POST("/generate-prescription", generationHandler.GeneratePrescription)

		sessionRoutes := private.Group("/sessions")
		{
			sessionRoutes.POST("", sessionHandler.CreateSession)
			sessionRoutes.GET("/:id", sessionHandler.GetSession)
			sessionRoutes.PUT("/:id/symptoms", sessionHandler.ConfirmSymptoms)
			sessionRoutes.POST("/:id/diagnosis", sessionHandler.GenerateDiagnosis)
			sessionRoutes.POST("/:id/diagnosis/regenerate", sessionHandler.RegenerateDiagnosis)
			sessionRoutes.PUT("/:id/diagnosis", sessionHandler.ConfirmDiagnosis)
			sessionRoutes.PUT("/:id/medications", sessionHandler.UpdateMedications)
			sessionRoutes.POST("/:id/finalize", sessionHandler.Finalize)
			sessionRoutes.DELETE("/:id", sessionHandler.DeleteSession)
		}

		private.POST("/save-consultation", consultationHandler.SaveConsultation)
		consultationRoutes := private.Group("/consultations")
		{
			consultationRoutes.POST("", consultationHandler.SaveConsultation)
			consultationRoutes.GET("", consultationHandler.GetConsultations)
			consultationRoutes.GET("/export", consultationHandler.ExportConsultations)
			consultationRoutes.GET("/:id", consultationHandler.GetConsultation)
			consultationRoutes.DELETE("/:id", consultationHandler.DeleteConsultation)
			consultationRoutes.POST("/:id/document", consultationHandler.RenderDocument)
			consultationRoutes.GET("/:id/document", consultationHandler.DownloadDocument)
		}

		specialistRoutes := private.Group("/specialists")
		{
			specialistRoutes.GET("", specialistHandler.GetSpecialists)
			specialistRoutes.GET("/categories", specialistHandler.GetCategories)
			specialistRoutes.GET("/:id", specialistHandler.GetSpecialist)

			adminRoutes := specialistRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", specialistHandler.CreateSpecialist)
				adminRoutes.PUT("/:id", specialistHandler.UpdateSpecialist)
				adminRoutes.DELETE("/:id", specialistHandler.DeleteSpecialist)
			}
		}

		referralRoutes := private.Group("/referrals")
		{
			referralRoutes.POST("", referralHandler.CreateReferral)
			referralRoutes.GET("", referralHandler.GetReferrals)
			referralRoutes.PATCH("/:id/status", referralHandler.UpdateReferralStatus)
			referralRoutes.DELETE("/:id", referralHandler.DeleteReferral)
		}

		private.POST("/translate", translateHandler.Translate)
		private.GET("/translate/languages", translateHandler.GetLanguages)
	}
}
