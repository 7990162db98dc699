package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/account-api/internal/services"
	"github.com/harentsoaR/account-api/internal/store"
	"github.com/harentsoaR/account-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Accounts *services.AccountService
	Tokens   *utils.TokenIssuer
	Logger   *zap.Logger
}

func NewHandler(accounts *services.AccountService, tokens *utils.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: accounts,
		Tokens:   tokens,
		Logger:   logger.Named("handlers"),
	}
}

// Health reports that the process is serving.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service and store errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var hErr *services.HashingError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, store.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
	case errors.Is(err, store.ErrDuplicatePhone):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this phone already exists"})
	case errors.Is(err, store.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at most 72 bytes"})
	case errors.As(err, &hErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
	default:
		h.Logger.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
