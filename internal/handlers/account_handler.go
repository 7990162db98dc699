package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/account-api/internal/middleware"
	"github.com/harentsoaR/account-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateAccountRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

func currentAccountID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.AccountIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetCurrentAccount returns the authenticated account.
func (h *Handler) GetCurrentAccount(c *gin.Context) {
	id, ok := currentAccountID(c)
	if !ok {
		return
	}
	account, err := h.Accounts.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateCurrentAccount changes email, phone or password. An empty phone
// removes it.
func (h *Handler) UpdateCurrentAccount(c *gin.Context) {
	id, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Email == nil && req.Phone == nil && req.Password == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	account, err := h.Accounts.Update(c.Request.Context(), id, services.AccountUpdate{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) DeleteCurrentAccount(c *gin.Context) {
	id, ok := currentAccountID(c)
	if !ok {
		return
	}
	if err := h.Accounts.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
