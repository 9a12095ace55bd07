package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"portfolio-app/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an admin session token stays valid.
const TokenTTL = 12 * time.Hour

// POST /auth/login
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if config.ADMIN_PASSWORD_HASH == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Password login is not configured"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(config.ADMIN_USERNAME)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(config.ADMIN_PASSWORD_HASH), []byte(input.Password))
	if !userOK || passErr != nil {
		slog.Warn("failed admin login", slog.String("username", input.Username), slog.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := issueAppJWT(config.ADMIN_USERNAME)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(TokenTTL.Seconds()),
	})
}

func issueAppJWT(subject string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(TokenTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}
