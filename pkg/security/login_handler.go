package security

import (
	"context"
	"net/http"
	"time"

	"github.com/Glenne01/sneakers-sub000/internal/rate_limiter"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StaffStore looks up back-office accounts for authentication.
type StaffStore interface {
	GetByUsername(ctx context.Context, username string) (*models.StaffUser, error)
}

type LoginHandler struct {
	staff       StaffStore
	tokens      *TokenManager
	rateLimiter *rate_limiter.RateLimiter
	log         *zap.Logger
}

func NewLoginHandler(staff StaffStore, tokens *TokenManager, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		staff:       staff,
		tokens:      tokens,
		rateLimiter: rate_limiter.NewRateLimiter(10, 5*time.Minute),
		log:         log,
	}
}

func (l *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth", l.Login)
}

func (l *LoginHandler) Login(c *gin.Context) {
	if !l.rateLimiter.IsAllowed(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, try again later"})
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := l.staff.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := l.tokens.GenerateJWT(user.ID, user.Role, user.Username)
	if err != nil {
		l.log.Error("failed to generate staff token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
