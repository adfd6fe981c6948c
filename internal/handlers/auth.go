package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"salon-booking-server/internal/models"
	"salon-booking-server/internal/utils"
	"salon-booking-server/pkg/logging"
)

// AuthHandler handles staff authentication.
type AuthHandler struct {
	Admin  models.Staff
	Secret string
	TTL    time.Duration
	Logger *logging.Logger
}

// NewAuthHandler creates a new AuthHandler for the configured admin account.
func NewAuthHandler(admin models.Staff, secret string, ttl time.Duration, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{Admin: admin, Secret: secret, TTL: ttl, Logger: logger}
}

// LoginRequest represents the request body for staff login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	Staff       models.Staff `json:"staff"`
}

// Login exchanges the admin credentials for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !h.Admin.Matches(req.Email) || !h.Admin.CheckPassword(req.Password) {
		h.Logger.Warn("failed admin login", "email", req.Email, "remote_ip", c.ClientIP())
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, expiresAt, err := utils.GenerateAccessToken(&h.Admin, h.Secret, h.TTL)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Staff:       h.Admin,
	})
}
