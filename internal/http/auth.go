package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"frutolandia/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuth("login", authOutcome(err))
		h.writeError(c, err)
		return
	}

	h.metrics.RecordAuth("login", "success")
	c.JSON(http.StatusOK, authToResponse(res))
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RecordAuth("register", authOutcome(err))
		h.writeError(c, err)
		return
	}

	h.metrics.RecordAuth("register", "success")
	c.JSON(http.StatusCreated, authToResponse(res))
}

func (h *Handler) verify(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.metrics.RecordAuth("verify", "missing_token")
		h.writeError(c, service.ErrInvalidToken)
		return
	}

	user, err := h.auth.Verify(c.Request.Context(), token)
	if err != nil {
		h.metrics.RecordAuth("verify", authOutcome(err))
		h.writeError(c, err)
		return
	}

	h.metrics.RecordAuth("verify", "success")
	c.JSON(http.StatusOK, VerifyResponse{Valid: true, User: userToResponse(*user)})
}

func authOutcome(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, service.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, service.ErrInvalidInput):
		return "invalid_input"
	}
	return "error"
}
