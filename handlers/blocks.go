package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"saludagenda/models"
	booking "saludagenda/services/booking"
	"saludagenda/utils"
)

// ListBlockedSlotsHandler lists a doctor's blocked slots. Doctors may only
// read their own; admins may read anyone's.
func (h *Handler) ListBlockedSlotsHandler(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}
	doctorID := c.Param("id")
	if caller.Role == models.RoleDoctor && caller.ID != doctorID {
		utils.JSONError(c, http.StatusForbidden, "Solo puedes ver tus propios bloqueos", "")
		return
	}
	slots, err := h.Booking.ListBlockedSlots(c.Request.Context(), doctorID)
	if err != nil {
		utils.RespondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// AddBlockedSlotHandler declares a blocked range on the doctor's own agenda.
func (h *Handler) AddBlockedSlotHandler(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}
	doctorID := c.Param("id")
	if caller.Role == models.RoleDoctor && caller.ID != doctorID {
		utils.JSONError(c, http.StatusForbidden, "Solo puedes bloquear tu propia agenda", "")
		return
	}

	var req models.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Datos del bloqueo inválidos", err.Error())
		return
	}
	slot, err := h.Booking.AddBlockedSlot(c.Request.Context(), doctorID, req)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidInput) {
			utils.JSONError(c, http.StatusBadRequest, "Datos del bloqueo inválidos", err.Error())
			return
		}
		utils.RespondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// RemoveBlockedSlotHandler deletes a blocked slot by id. The acting account
// is threaded through so the service can scope the delete to the caller's
// own agenda.
func (h *Handler) RemoveBlockedSlotHandler(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}
	if err := h.Booking.RemoveBlockedSlot(c.Request.Context(), caller, c.Param("id")); err != nil {
		utils.RespondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
