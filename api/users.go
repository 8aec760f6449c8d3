package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/Domenick1991/airline-reservation/internal/service/user"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

type UserHandler struct {
	service user.UserUseCase
}

func NewUserHandler(service user.UserUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/me", RequireUser(h.service), h.me)
}

type userResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user"`
}

func (h *UserHandler) register(c *gin.Context) {
	var req user.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Server error during registration.")
		return
	}
	c.JSON(http.StatusCreated, userResponse{Message: "User registered successfully", User: created})
}

func (h *UserHandler) login(c *gin.Context) {
	var req user.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password."})
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Server error during login.")
		return
	}
	c.JSON(http.StatusOK, userResponse{Message: "Login successful", Token: token, User: u})
}

func (h *UserHandler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": c.GetInt64(userIDKey)})
}

// RequireUser rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's id under userIDKey.
func RequireUser(tokens interface {
	ParseToken(token string) (*user.Claims, error)
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			writeError(c, err, "Failed to verify token")
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}
