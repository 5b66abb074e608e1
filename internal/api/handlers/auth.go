package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"teamspace-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Register godoc
// @Summary Register a new user
// @Description Register a new user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body object{email=string,password=string} true "User registration details"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} object{errors=object}
// @Failure 500 {object} object{error=string}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if len(request.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": "Password must be at least 6 characters"}})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(request.Email)),
		Password: string(hashedPassword),
	}

	// The unique key on email decides duplicates, so two concurrent
	// registrations for the same address cannot both succeed.
	_, err = h.db.Exec(`
        INSERT INTO users (id, email, password)
        VALUES (?, ?, ?)`, user.ID, user.Email, user.Password)
	if isDuplicateKey(err) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "Email already registered"}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Delivery is best effort. A broken mail relay must not undo the
	// registration.
	if err := h.sendVerificationEmail(user.ID, user.Email); err != nil {
		log.Printf("verification email for %s not sent: %v", user.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

// Login godoc
// @Summary Login user
// @Description Authenticate user and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{message=string,token=string}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	// Unknown address and wrong password produce the identical response.
	var userID, storedHash string
	err := h.db.QueryRow("SELECT id, password FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(credentials.Email))).Scan(&userID, &storedHash)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(credentials.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.sessions.Issue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// Logout godoc
// @Summary Logout
// @Description Revoke the presented session. Succeeds without one.
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if err := h.sessions.Revoke(c.Request.Context(), parts[1]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func isDuplicateKey(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}
