package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userRepo "saludagenda/database/repository/user"
	"saludagenda/models"
	userService "saludagenda/services/user"
	"saludagenda/utils"
)

// RegisterHandler creates an account.
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Datos de registro inválidos", err.Error())
		return
	}
	account, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "El correo ya está registrado", err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "No se pudo crear la cuenta", err.Error())
		return
	}
	c.JSON(http.StatusCreated, account)
}

// LoginHandler authenticates and returns {token, user}.
func (h *Handler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Credenciales inválidas", err.Error())
		return
	}
	session, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userService.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Correo o contraseña incorrectos", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "No se pudo iniciar sesión", err.Error())
		return
	}
	c.JSON(http.StatusOK, session)
}

// LogoutHandler revokes the caller's session.
func (h *Handler) LogoutHandler(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		utils.JSONError(c, http.StatusBadRequest, "Falta el token de sesión", "")
		return
	}
	if err := h.Users.ClearSession(c.Request.Context(), token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "No se pudo cerrar la sesión", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
