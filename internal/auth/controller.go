package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"spendly/internal/shared/middleware"
	"spendly/internal/shared/utils/response"
	"spendly/internal/tokens"
	"spendly/pkg/logger"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	logger    *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
		logger:    logger.GetDefault(),
	}
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req, ctx.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.logger.LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Invalid user name or password", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to log in", nil, nil)
		return
	}

	c.logger.LogAuthSuccess(ctx.Request.Context(), resp.UserName, "password")
	response.RespondJSON(ctx, "success", http.StatusOK, "Logged in successfully", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	// The old access token rides along in the Authorization header; it
	// may already be expired, the manager re-validates everything else.
	oldAccessToken, err := middleware.ExtractBearerToken(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid token", nil, nil)
		return
	}

	resp, err := c.service.Refresh(ctx.Request.Context(), req.RefreshToken, oldAccessToken)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			c.logger.LogAuthFailure(ctx.Request.Context(), "refresh rejected", ctx.ClientIP())
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "invalid token", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to refresh token", nil, nil)
		return
	}

	c.logger.LogTokenRefreshed(ctx.Request.Context(), resp.UserName)
	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", resp, nil)
}
