package handlers

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"

	"teamspace-api/internal/mailer"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// One response for every way a token can be bad. Separate messages would
// let a caller probe which users exist.
const tokenInvalidMessage = "Invalid or expired token"

// SendVerificationEmail godoc
// @Summary Send email verification link
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/email/send [post]
func (h *Handler) SendVerificationEmail(c *gin.Context) {
	userID := c.GetString("user_id")

	var email string
	var verified bool
	err := h.db.QueryRow("SELECT email, is_email_verified FROM users WHERE id = ?", userID).Scan(&email, &verified)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if verified {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified"})
		return
	}

	if err := h.sendVerificationEmail(userID, email); err != nil {
		log.Printf("verification email for %s not sent: %v", userID, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Consumes a verification token passed as a query parameter
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/email/verify [get]
func (h *Handler) VerifyEmail(c *gin.Context) {
	userID, err := h.tokens.CheckVerification(c.Request.Context(), c.Query("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": tokenInvalidMessage})
		return
	}

	// Idempotent: re-verifying just sets an already-true flag again.
	result, err := h.db.Exec("UPDATE users SET is_email_verified = TRUE WHERE id = ?", userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// User deleted since issuance. Same generic outcome.
		var exists bool
		h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": tokenInvalidMessage})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// RequestPasswordReset godoc
// @Summary Request a password reset link
// @Description Always answers with the same message, whether or not the email exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} object{message=string}
// @Router /auth/password/reset [post]
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var userID, passwordHash, email string
	err := h.db.QueryRow("SELECT id, password, email FROM users WHERE email = ?", request.Email).Scan(&userID, &passwordHash, &email)
	if err == nil {
		if sendErr := h.sendPasswordResetEmail(userID, passwordHash, email); sendErr != nil {
			log.Printf("password reset email for %s not sent: %v", userID, sendErr)
		}
	} else if err != sql.ErrNoRows {
		log.Printf("password reset lookup failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that email exists, a password reset link has been sent"})
}

// ConfirmPasswordReset godoc
// @Summary Set a new password using a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{uid=string,token=string,new_password=string} true "Reset payload"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/password/reset/confirm [post]
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var request struct {
		UID         string `json:"uid" binding:"required"`
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid, token and new_password are required"})
		return
	}

	if len(request.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"new_password": "Password must be at least 6 characters"}})
		return
	}

	decoded, err := base64.RawURLEncoding.DecodeString(request.UID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": tokenInvalidMessage})
		return
	}
	userID := string(decoded)

	var passwordHash string
	err = h.db.QueryRow("SELECT password FROM users WHERE id = ?", userID).Scan(&passwordHash)
	if err != nil {
		// Unknown user and bad token are indistinguishable.
		c.JSON(http.StatusBadRequest, gin.H{"error": tokenInvalidMessage})
		return
	}

	if err := h.tokens.CheckReset(request.Token, userID, passwordHash); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": tokenInvalidMessage})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Storing the new hash also changes the reset key, which invalidates
	// every outstanding token for this user.
	if _, err := h.db.Exec("UPDATE users SET password = ? WHERE id = ?", string(hashed), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *Handler) sendVerificationEmail(userID, email string) error {
	token, err := h.tokens.IssueVerification(userID)
	if err != nil {
		return err
	}
	verifyURL := fmt.Sprintf("%s/auth/email/verify?token=%s", h.baseURL, token)
	return h.mailer.Send(mailer.Message{
		Subject: "Verify your email",
		To:      []string{email},
		Text:    "Click to verify your email: " + verifyURL,
	})
}

func (h *Handler) sendPasswordResetEmail(userID, passwordHash, email string) error {
	token, err := h.tokens.IssueReset(userID, passwordHash)
	if err != nil {
		return err
	}
	uid := base64.RawURLEncoding.EncodeToString([]byte(userID))
	resetURL := fmt.Sprintf("%s/auth/password/reset/confirm?uid=%s&token=%s", h.baseURL, uid, token)
	return h.mailer.Send(mailer.Message{
		Subject: "Password reset",
		To:      []string{email},
		Text:    "Click to reset your password: " + resetURL,
	})
}
