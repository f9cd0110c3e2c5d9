package handler

import (
	"encoding/json"
	"net/http"

	"gamevault-api/internal/middleware"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/apierror"
	"gamevault-api/pkg/response"
)

// AuthHandler handles registration, login and OTP lifecycle requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Name == "" || req.Email == "" || req.Password == "" {
		response.Error(w, apierror.BadRequest("name, email and password are required"))
		return
	}

	msg, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, map[string]string{"message": msg})
}

// CodeRequest represents a request carrying an email plus OTP code.
type CodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyEmail handles POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	msg, err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": msg})
}

// EmailRequest represents a request carrying only an email.
type EmailRequest struct {
	Email string `json:"email"`
}

// ResendCode handles POST /api/v1/auth/resend-code
func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	msg, err := h.auth.ResendVerification(r.Context(), req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": msg})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	msg, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": msg})
}

// ResetPasswordRequest represents the request body for password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	msg, err := h.auth.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": msg})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// AdminLogin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	result, err := h.auth.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetMe(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user)
}
