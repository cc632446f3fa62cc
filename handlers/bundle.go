package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// JSON API
	GetSerialNumberHandler         gin.HandlerFunc
	ListSerialRegistrationsHandler gin.HandlerFunc
	RegisterBikeHandler            gin.HandlerFunc
	GetRegistrationHandler         gin.HandlerFunc
	GetWizardStateHandler          gin.HandlerFunc
	DeleteWizardHandler            gin.HandlerFunc
	HealthHandler                  gin.HandlerFunc

	// Wizard pages
	ShowWizardHandler   gin.HandlerFunc
	VerifySerialHandler gin.HandlerFunc
	DetailsHandler      gin.HandlerFunc
	PersonalHandler     gin.HandlerFunc
	JumpToStepHandler   gin.HandlerFunc
	ResetWizardHandler  gin.HandlerFunc
}
