package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suhailullakhan1/FruitMandi/internal/middleware"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"github.com/suhailullakhan1/FruitMandi/internal/store"
	"github.com/suhailullakhan1/FruitMandi/pkg/config"
	"github.com/suhailullakhan1/FruitMandi/pkg/jwtutil"
	"github.com/suhailullakhan1/FruitMandi/pkg/logger"
	"github.com/suhailullakhan1/FruitMandi/pkg/otp"
	"github.com/suhailullakhan1/FruitMandi/prometheus"
	"go.uber.org/zap"
)

// AuthHandler serves the phone+OTP login flow and session endpoints.
type AuthHandler struct {
	store    *store.Store
	jwt      *jwtutil.JWTUtil
	verifier otp.Verifier
	cfg      *config.JWTConfig
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(s *store.Store, jwt *jwtutil.JWTUtil, verifier otp.Verifier, cfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{store: s, jwt: jwt, verifier: verifier, cfg: cfg}
}

// SendOTP issues a login challenge for a phone number.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Phone string `json:"phone" validate:"required"`
		Role  string `json:"role" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return validationError(c, "phone and role are required", err)
	}
	if !model.ValidRole(req.Role) {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	if err := h.verifier.SendChallenge(req.Phone); err != nil {
		log.Error("Failed to issue OTP challenge", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send OTP"})
	}

	prometheus.OTPSentCounter.Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP sent successfully",
		"phone":   req.Phone,
	})
}

// VerifyOTP checks the challenge, creates the user on first login and opens a
// session. New merchant users get a merchant profile with a generated code.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Phone string `json:"phone" validate:"required"`
		OTP   string `json:"otp" validate:"required"`
		Role  string `json:"role" validate:"required"`
		Name  string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return validationError(c, "phone, OTP and role are required", err)
	}
	if !model.ValidRole(req.Role) {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	if !h.verifier.Verify(req.Phone, req.OTP) {
		log.Warn("OTP verification failed", zap.String("phone", req.Phone))
		prometheus.RecordAuthError("invalid_otp")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid OTP"})
	}

	ctx := c.Request().Context()
	user, err := h.store.GetUserByPhone(ctx, req.Phone)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = h.registerUser(c, req.Phone, req.Role, req.Name)
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
			}
			log.Error("Failed to register user", zap.Error(err))
			prometheus.RecordAuthError("db_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
		}
	case err != nil:
		log.Error("Failed to look up user", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
	default:
		// The stored role wins; logging in under a different role is not a
		// way to escalate.
		if user.Role != req.Role {
			log.Warn("Role mismatch on login",
				zap.String("phone", req.Phone),
				zap.String("stored_role", user.Role),
				zap.String("requested_role", req.Role))
			prometheus.RecordAuthError("role_mismatch")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "role does not match this account"})
		}
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Phone, user.Role, user.Name)
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
	}

	c.SetCookie(h.sessionCookie(token, time.Duration(h.cfg.ExpirationHours)*time.Hour))

	log.Info("User logged in",
		zap.String("phone", user.Phone),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user": echo.Map{
			"id":    user.ID,
			"phone": user.Phone,
			"role":  user.Role,
			"name":  user.Name,
		},
	})
}

// registerUser creates the user record on first successful verification, and
// the merchant profile when the role is merchant.
func (h *AuthHandler) registerUser(c echo.Context, phone, role, name string) (*model.User, error) {
	ctx := c.Request().Context()

	if role == model.RoleMerchant && name == "" {
		prometheus.RecordAuthError("invalid_request")
		return nil, echo.NewHTTPError(http.StatusBadRequest, "name is required for new merchants")
	}
	if name == "" {
		name = strings.ToUpper(role[:1]) + role[1:] + " User"
	}

	user := &model.User{
		Phone:    phone,
		Role:     role,
		Name:     name,
		IsActive: true,
	}

	var merchant *model.Merchant
	if role == model.RoleMerchant {
		code, err := generateMerchantCode(ctx, h.store)
		if err != nil {
			return nil, err
		}
		merchant = &model.Merchant{
			MerchantCode: code,
			Name:         name,
			Phone:        phone,
			IsActive:     true,
		}
	}

	// One transaction: a failed profile insert must not leave the user behind.
	if err := h.store.CreateUserWithMerchant(ctx, user, merchant); err != nil {
		return nil, err
	}
	prometheus.RegisterCounter.Inc()

	if merchant != nil {
		logger.FromEcho(c).Info("Merchant profile created on registration",
			zap.String("merchant_code", merchant.MerchantCode))
	}

	return user, nil
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1*time.Hour))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Me returns the verified identity of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":    claims.UserID,
			"phone": claims.Phone,
			"role":  claims.Role,
			"name":  claims.Name,
		},
	})
}

func (h *AuthHandler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(maxAge),
	}
}
