package http_handlers

import (
	"net/http"

	"github.com/baechuer/noteplus/internal/application/auth"
	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/logger"
	"github.com/baechuer/noteplus/internal/transport/http/dto"
	"github.com/baechuer/noteplus/internal/transport/http/middleware"
	"github.com/baechuer/noteplus/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.UserID).
		Msg("user_registered")

	response.Created(w, dto.RegisterResponse{
		Message: "User registered successfully!",
		UserID:  res.UserID,
	})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{
		Message: "Login successful",
		Token:   res.Token,
	})
}

// UserInfo handles GET /api/user-info. Everything comes from the verified
// token; the store is not consulted.
func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.ToUserInfo(h.svc.UserInfo(id)))
}

func loginStatus(err error) string {
	switch {
	case domain.Is(err, "invalid_credentials"):
		return "invalid_credentials"
	case domain.Is(err, "user_not_found"):
		return "user_not_found"
	default:
		return "error"
	}
}
