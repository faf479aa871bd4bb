package handler

import (
	"errors"
	"net/http"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
	"boty-storefront/internal/service"
	"boty-storefront/pkg/apierror"
)

const msgInvalidLogin = "Datos de acceso invalidos."

type AuthHandler struct {
	service  *service.AuthService
	verifier auth.Verifier
	cookie   auth.CookieOptions
}

func NewAuthHandler(service *service.AuthService, verifier auth.Verifier, cookie auth.CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, verifier: verifier, cookie: cookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, apierror.BadRequest(msgInvalidLogin, ""))
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			writeError(w, apierror.BadRequest(msgInvalidLogin, ""))
			return
		}
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.cookie)
	writeJSON(w, http.StatusOK, model.UserResponse{OK: true, User: result.User})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSessionCookie(w, h.cookie)
	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.AdminFromRequest(h.verifier, r)
	if !ok {
		writeError(w, apierror.Unauthorized(msgUnauthenticated))
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{OK: true, User: claims.User()})
}
