package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bikereg/middleware"
	"bikereg/services/wizard"
	"bikereg/utils"
	"bikereg/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const wizardPath = "/registration"

// WizardHandler serves the server-rendered registration wizard.
type WizardHandler struct {
	Manager    *wizard.Manager
	Controller *wizard.Controller
	// Accessible enables navigation through the progress indicators.
	Accessible bool
	Now        func() time.Time
}

func NewWizardHandler(manager *wizard.Manager, controller *wizard.Controller, accessible bool) *WizardHandler {
	return &WizardHandler{Manager: manager, Controller: controller, Accessible: accessible, Now: time.Now}
}

// ShowWizardHandler handles GET /registration.
func (h *WizardHandler) ShowWizardHandler(c *gin.Context) {
	s, err := h.Manager.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.fail(c, "Failed to load wizard session", err)
		return
	}
	page, err := views.NewPage(s, h.Accessible, h.Now())
	if err != nil {
		h.fail(c, "Failed to render wizard", err)
		return
	}
	c.HTML(http.StatusOK, views.PageTemplate, page)
}

// GetWizardStateHandler handles GET /api/wizard.
func (h *WizardHandler) GetWizardStateHandler(c *gin.Context) {
	s, err := h.Manager.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load wizard session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": s})
}

// DeleteWizardHandler handles DELETE /api/wizard. A session with a backend
// call in flight is left alone.
func (h *WizardHandler) DeleteWizardHandler(c *gin.Context) {
	id := middleware.SessionID(c)
	s, err := h.Manager.Load(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load wizard session", err.Error())
		return
	}
	if s.Busy {
		c.JSON(http.StatusConflict, utils.ErrorResponse{Message: "A request for this session is still in progress"})
		return
	}
	if err := h.Manager.Delete(c.Request.Context(), id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete wizard session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifySerialHandler handles POST /registration/verify.
func (h *WizardHandler) VerifySerialHandler(c *gin.Context) {
	sn := c.PostForm("serialNumber")
	ctx := detach(c)
	h.update(c, func(s *wizard.Session) error {
		return h.Controller.VerifySerial(ctx, s, sn)
	})
}

// DetailsHandler handles POST /registration/details.
func (h *WizardHandler) DetailsHandler(c *gin.Context) {
	date := c.PostForm("dateOfPurchase")
	action := c.DefaultPostForm("action", "next")
	h.update(c, func(s *wizard.Session) error {
		if err := h.Controller.SetPurchaseDate(s, date); err != nil {
			return err
		}
		if action == "back" {
			return h.Controller.Back(s)
		}
		return h.Controller.ConfirmDetails(s)
	})
}

// PersonalHandler handles POST /registration/personal.
func (h *WizardHandler) PersonalHandler(c *gin.Context) {
	var in wizard.PersonalInput
	if err := c.ShouldBind(&in); err != nil {
		getLogger(c).Debug("Malformed personal form", zap.Error(err))
		c.Redirect(http.StatusSeeOther, wizardPath)
		return
	}
	action := c.DefaultPostForm("action", "save")
	ctx := detach(c)
	h.update(c, func(s *wizard.Session) error {
		if err := h.Controller.UpdatePersonal(s, in); err != nil {
			return err
		}
		switch action {
		case "back":
			return h.Controller.Back(s)
		case "submit":
			return h.Controller.Submit(ctx, s)
		}
		return nil
	})
}

// JumpToStepHandler handles POST /registration/steps/:index.
func (h *WizardHandler) JumpToStepHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, wizardPath)
		return
	}
	h.update(c, func(s *wizard.Session) error {
		return h.Controller.JumpTo(s, index, h.Accessible)
	})
}

// ResetWizardHandler handles POST /registration/reset.
func (h *WizardHandler) ResetWizardHandler(c *gin.Context) {
	h.update(c, func(s *wizard.Session) error {
		h.Controller.Reset(s)
		return nil
	})
}

// update applies fn to the caller's session and redirects back to the page.
// Rejected actions are logged only; their field errors render on the page.
func (h *WizardHandler) update(c *gin.Context, fn func(s *wizard.Session) error) {
	id := middleware.SessionID(c)
	_, err := h.Manager.Update(c.Request.Context(), id, fn)
	if err != nil && !isActionRejection(err) {
		h.fail(c, "Failed to update wizard session", err)
		return
	}
	if err != nil {
		getLogger(c).Debug("Wizard action rejected", zap.String("sessionId", id), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, wizardPath)
}

func (h *WizardHandler) fail(c *gin.Context, msg string, err error) {
	getLogger(c).Error(msg, zap.Error(err))
	c.String(http.StatusInternalServerError, msg)
}

func isActionRejection(err error) bool {
	for _, target := range []error{
		wizard.ErrBusy,
		wizard.ErrWrongStep,
		wizard.ErrSerialRequired,
		wizard.ErrPurchaseDateRequired,
		wizard.ErrInvalidRecord,
		wizard.ErrIndicatorLocked,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// detach keeps in-flight backend calls running when the browser goes away,
// so the busy flag is always cleared.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
