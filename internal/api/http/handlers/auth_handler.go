package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood4life/internal/api/dto"
	"github.com/spec-kit/blood4life/internal/auth"
	"github.com/spec-kit/blood4life/internal/service"
	apperrors "github.com/spec-kit/blood4life/pkg/util"
)

// AuthHandler exposes registration and login endpoints for every principal
// kind. Successful logins set the token both in the body and as the session
// cookie the gate reads.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterDonor handles POST /api/auth/donor/register.
func (h *AuthHandler) RegisterDonor(c *fiber.Ctx) error {
	var req dto.DonorRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.DNI == "" {
		return fiber.NewError(http.StatusBadRequest, "dni, first_name, last_name, email, password required")
	}

	donor, token, exp, err := h.auth.RegisterDonor(c.Context(), service.DonorRegistration{
		DNI:         req.DNI,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		BloodType:   req.BloodType,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	setTokenCookie(c, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"donor": fiber.Map{
				"id":    donor.ID,
				"name":  donor.FullName(),
				"email": donor.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RegisterHospital handles POST /api/auth/hospital/register.
func (h *AuthHandler) RegisterHospital(c *fiber.Ctx) error {
	var req dto.HospitalRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	hospital, token, exp, err := h.auth.RegisterHospital(c.Context(), service.HospitalRegistration{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}

	setTokenCookie(c, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"hospital": fiber.Map{
				"id":    hospital.ID,
				"name":  hospital.Name,
				"email": hospital.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginDonor handles POST /api/auth/donor/login.
func (h *AuthHandler) LoginDonor(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	donor, token, exp, err := h.auth.LoginDonor(c.Context(), req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	setTokenCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"donor": fiber.Map{
				"id":    donor.ID,
				"name":  donor.FullName(),
				"email": donor.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginHospital handles POST /api/auth/hospital/login.
func (h *AuthHandler) LoginHospital(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	hospital, token, exp, err := h.auth.LoginHospital(c.Context(), req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	setTokenCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"hospital": fiber.Map{
				"id":    hospital.ID,
				"name":  hospital.Name,
				"email": hospital.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginAdmin handles POST /api/auth/admin/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Username, req.Password)
	if err != nil {
		return loginError(err)
	}

	setTokenCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":       admin.ID,
				"username": admin.Username,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/auth/logout by expiring the session cookie. Tokens
// themselves stay valid until expiry; the design is stateless.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"status": "OK"})
}

// Me handles GET /api/auth/me, reporting the identity the gate installed.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":        identity.Principal.ID(),
			"name":      identity.Principal.DisplayName(),
			"kind":      identity.Principal.Kind,
			"authority": identity.Authority,
		},
	})
}

func setTokenCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func loginError(err error) error {
	if errors.Is(err, service.ErrInvalidCredentials) {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	return err
}
