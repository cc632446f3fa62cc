package handlers

import (
	"errors"
	"net/http"

	registrationRepo "bikereg/database/repository/registration"
	"bikereg/models"
	"bikereg/services/registration"
	"bikereg/services/serial"
	"bikereg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SerialHandler serves the serial-number lookup.
type SerialHandler struct {
	Verifier *serial.Verifier
}

func NewSerialHandler(v *serial.Verifier) *SerialHandler {
	return &SerialHandler{Verifier: v}
}

// GetSerialNumberHandler handles GET /api/serial-numbers/:serial.
func (h *SerialHandler) GetSerialNumberHandler(c *gin.Context) {
	sn := c.Param("serial")
	bike, err := h.Verifier.Verify(c.Request.Context(), sn)
	if err != nil {
		var lookupErr *serial.LookupError
		if errors.As(err, &lookupErr) {
			status := http.StatusNotFound
			if errors.Is(err, serial.ErrSerialRequired) {
				status = http.StatusBadRequest
			}
			c.JSON(status, utils.ErrorResponse{Message: lookupErr.DisplayMessage()})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to verify serial number", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": bike})
}

// RegistrationHandler serves the registration endpoints.
type RegistrationHandler struct {
	Service *registration.Service
	Store   registrationRepo.RegistrationRepository
}

func NewRegistrationHandler(svc *registration.Service, store registrationRepo.RegistrationRepository) *RegistrationHandler {
	return &RegistrationHandler{Service: svc, Store: store}
}

// RegisterBikeHandler handles POST /api/register.
func (h *RegistrationHandler) RegisterBikeHandler(c *gin.Context) {
	logger := getLogger(c)

	var payload registration.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Debug("Malformed registration body", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := h.Service.RegisterPayload(c.Request.Context(), payload)
	if err != nil {
		if verr, ok := registration.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": verr.Fields.Format()})
			return
		}
		if c.Request.Context().Err() != nil {
			logger.Info("Registration abandoned by client", zap.Error(err))
			c.Status(499)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}

	if !resp.Success {
		c.JSON(http.StatusConflict, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetRegistrationHandler handles GET /api/registrations/:id.
func (h *RegistrationHandler) GetRegistrationHandler(c *gin.Context) {
	reg, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, registrationRepo.ErrRegistrationNotFound) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Message: "Registration not found"})
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load registration", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reg})
}

// ListSerialRegistrationsHandler handles GET /api/serial-numbers/:serial/registrations.
// Results are ordered oldest first.
func (h *RegistrationHandler) ListSerialRegistrationsHandler(c *gin.Context) {
	regs, err := h.Store.ListBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list registrations", err.Error())
		return
	}
	if regs == nil {
		regs = []models.StoredRegistration{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": regs})
}

// HealthHandler handles GET /health.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Hi, I'm the bike registration service",
		"checks":  utils.GetHealthStatus(),
	})
}
