package router

import (
	"github.com/gin-gonic/gin"

	"github.com/abrefacil/briefing-backend/config"
	"github.com/abrefacil/briefing-backend/internal/app/controller"
	"github.com/abrefacil/briefing-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	briefingController *controller.BriefingController
	registryController *controller.RegistryController
	cepController      *controller.CEPController
	userController     *controller.UserController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	briefingController *controller.BriefingController,
	registryController *controller.RegistryController,
	cepController *controller.CEPController,
	userController *controller.UserController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		briefingController: briefingController,
		registryController: registryController,
		cepController:      cepController,
		userController:     userController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "AbreFácil briefing API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		briefings := v1.Group("/briefings")
		{
			// Submission and protocol lookup are open: the wizard runs
			// before any account exists. Ownership is attached when a
			// valid token is present.
			briefings.POST("", r.authMiddleware.OptionalAuthenticate(), r.briefingController.Create)
			briefings.GET("/protocolo/:protocolo", r.briefingController.GetByProtocolo)

			briefings.GET("",
				r.authMiddleware.Authenticate(),
				r.briefingController.List,
			)
			briefings.GET("/statistics",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.briefingController.GetStatistics,
			)
			briefings.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.briefingController.Export,
			)
			briefings.GET("/:id",
				r.authMiddleware.Authenticate(),
				r.briefingController.GetByID,
			)
			briefings.PATCH("/:id",
				r.authMiddleware.Authenticate(),
				r.briefingController.Update,
			)
			briefings.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.briefingController.Delete,
			)
		}

		// Lookup endpoints feed the public wizard, so no auth is required
		v1.GET("/cnpj/:cnpj", r.registryController.ConsultarCNPJ)
		v1.GET("/cep/:cep", r.cepController.ConsultarCEP)

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			users.GET("", r.userController.List)
			users.GET("/:id", r.userController.GetByID)
			users.PATCH("/:id", r.userController.Update)
			users.DELETE("/:id", r.userController.Delete)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.OptionalAuthenticate())
		{
			uploads.POST("/presign", r.uploadController.Presign)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
