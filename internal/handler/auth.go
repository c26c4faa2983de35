package handler

import (
	"net/http"

	"github.com/centrex/auth-service/internal/constants"
	"github.com/centrex/auth-service/internal/dto"
	apperrors "github.com/centrex/auth-service/internal/errors"
	"github.com/centrex/auth-service/internal/middleware"
	"github.com/centrex/auth-service/internal/service"
	"github.com/centrex/auth-service/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			constants.BuildValidationErrorResponse(constants.MsgValidationFailed, validation.Details(err)))
		return
	}

	response, err := h.auth.Register(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			constants.BuildValidationErrorResponse(constants.MsgValidationFailed, validation.Details(err)))
		return
	}

	response, err := h.auth.Login(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles POST /api/v1/auth/logout. The device is taken from the
// bearer token, not the request body, so a token can only log out the
// device it was issued to. The success payload is an empty JSON object.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, deviceID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID, deviceID, requestMeta(c)); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Me handles GET /api/v1/auth/user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Devices handles GET /api/v1/auth/devices
func (h *AuthHandler) Devices(c *gin.Context) {
	userID, _, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	devices, err := h.auth.Devices(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// renderError maps a service error to its HTTP status. Domain error
// messages are already client-safe; anything else collapses to the
// generic 500 message.
func (h *AuthHandler) renderError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	message := constants.MsgInternalError
	if domainErr := apperrors.GetDomainError(err); domainErr != nil && status != http.StatusInternalServerError {
		message = domainErr.Message
	}

	c.JSON(status, constants.BuildErrorResponse(message, nil))
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		Host:      c.Request.Host,
		UserAgent: c.Request.UserAgent(),
	}
}
