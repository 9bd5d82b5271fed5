package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saludagenda/utils"
)

// ListDoctorsHandler lists doctors, optionally narrowed by ?specialty=.
func (h *Handler) ListDoctorsHandler(c *gin.Context) {
	doctors, err := h.Booking.ListDoctors(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "No se pudieron cargar los doctores", err.Error())
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// ListSpecialtiesHandler lists the specialty catalog.
func (h *Handler) ListSpecialtiesHandler(c *gin.Context) {
	specialties, err := h.Booking.ListSpecialties(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "No se pudieron cargar las especialidades", err.Error())
		return
	}
	c.JSON(http.StatusOK, specialties)
}

// AddSpecialtyHandler registers a new specialty name.
func (h *Handler) AddSpecialtyHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Nombre de especialidad inválido", err.Error())
		return
	}
	if err := h.Booking.AddSpecialty(c.Request.Context(), req.Name); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No se pudo agregar la especialidad", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
