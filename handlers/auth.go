package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"

	"dinedash-server/middleware"
	"dinedash-server/models"
	"dinedash-server/store"

	"github.com/gin-gonic/gin"
)

type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IssueToken signs a token for the email with its current role, if any.
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var role models.UserRole
	rec, err := h.store.RoleFor(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		role = rec.Role
	case !errors.Is(err, store.ErrNotFound):
		h.respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(req.Email, role, []byte(h.cfg.Auth.JWTSecret), h.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

// GetRole returns the first role granted to email. Clients treat it as
// advisory.
func (h *Handler) GetRole(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	rec, err := h.store.RoleFor(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

const (
	codeLength  = 10
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

func generateCode() (string, error) {
	b := make([]byte, codeLength)
	limit := big.NewInt(int64(len(codeCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = codeCharset[n.Int64()]
	}
	return string(b), nil
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendVerificationCode issues a fresh code and mails it. Earlier codes stay
// valid.
func (h *Handler) SendVerificationCode(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	code, err := generateCode()
	if err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.store.CreateVerification(ctx, req.Email, code); err != nil {
		h.respondError(c, err)
		return
	}
	h.notifyFailed(ctx, "verification code", h.notifier.SendVerificationCode(ctx, req.Email, code))
	success(c)
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ok, err := h.store.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		badRequest(c, "Invalid verification code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": models.VerificationVerified})
}

func (h *Handler) VerificationStatus(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status, err := h.store.VerificationStatus(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
