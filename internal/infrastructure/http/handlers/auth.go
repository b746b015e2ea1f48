package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	"github.com/yuzvak/storefront-client/internal/application/session"
	"github.com/yuzvak/storefront-client/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

type AuthHandler struct {
	sess *session.Context
	log  *logger.Logger
}

func NewAuthHandler(sess *session.Context, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sess: sess,
		log:  log,
	}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"email":    "email is required",
			"password": "password is required",
		})
		return
	}

	if err := h.sess.Login(r.Context(), body.Email, body.Password); err != nil {
		h.log.Warn("Login failed", "email", body.Email, "error", err)
		response.WriteDomainError(w, err)
		return
	}

	profile, _ := h.sess.Profile()
	response.WriteSuccess(w, profile)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.sess.Logout(r.Context())
	response.WriteSuccess(w, map[string]string{"status": "logged_out"})
}

type signupBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body signupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	fields := make(map[string]string)
	if body.Username == "" {
		fields["username"] = "username is required"
	}
	if body.Email == "" {
		fields["email"] = "email is required"
	}
	if body.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		response.WriteValidationError(w, "Validation failed", fields)
		return
	}

	err := h.sess.Signup(r.Context(), ports.SignupRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, map[string]string{"status": "otp_sent"})
}

type otpBody struct {
	Email string `json:"email"`
	Code  string `json:"otp_code"`
}

func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body otpBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Code == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"email":    "email is required",
			"otp_code": "otp_code is required",
		})
		return
	}

	if err := h.sess.VerifyOTP(r.Context(), body.Email, body.Code); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	profile, _ := h.sess.Profile()
	response.WriteSuccess(w, profile)
}

func (h *AuthHandler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body otpBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"email": "email is required",
		})
		return
	}

	if err := h.sess.ResendOTP(r.Context(), body.Email); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, map[string]string{"status": "otp_sent"})
}
