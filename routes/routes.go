package routes

import (
	"net/http"
	"time"

	"bikereg/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers the JSON endpoints.
func RegisterAPIRoutes(r *gin.Engine, hb *handlers.HandlerBundle, session gin.HandlerFunc) {
	api := r.Group("/api")
	{
		api.GET("/serial-numbers/:serial", hb.GetSerialNumberHandler)
		api.GET("/serial-numbers/:serial/registrations", hb.ListSerialRegistrationsHandler)
		api.POST("/register", hb.RegisterBikeHandler)
		api.GET("/registrations/:id", hb.GetRegistrationHandler)
		api.GET("/wizard", session, hb.GetWizardStateHandler)
		api.DELETE("/wizard", session, hb.DeleteWizardHandler)
	}
}

// RegisterWizardRoutes registers the server-rendered wizard pages.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle, session gin.HandlerFunc) {
	page := r.Group("/registration")
	{
		page.Use(session)
		page.GET("", hb.ShowWizardHandler)
		page.POST("/verify", hb.VerifySerialHandler)
		page.POST("/details", hb.DetailsHandler)
		page.POST("/personal", hb.PersonalHandler)
		page.POST("/steps/:index", hb.JumpToStepHandler)
		page.POST("/reset", hb.ResetWizardHandler)
	}
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/registration")
	})
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// session resolves the wizard session cookie.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, session gin.HandlerFunc) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAPIRoutes(r, hb, session)
	RegisterWizardRoutes(r, hb, session)
	RegisterHealthRoute(r, hb)
}
