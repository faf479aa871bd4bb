package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
	"boty-storefront/pkg/apierror"
)

const (
	maxJSONBodyBytes = 1 << 20

	msgUnauthorized    = "No autorizado."
	msgUnauthenticated = "No autenticado."
	msgInternal        = "Error interno del servidor."
	msgInvalidProduct  = "Datos del producto invalidos."
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// inputDetails returns the field name carried by a wrapped ErrInvalidInput.
func inputDetails(err error) string {
	msg := err.Error()
	prefix := model.ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return ""
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{Code: "INTERNAL_ERROR", Error: msgInternal}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Error = "Credenciales invalidas."
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Error = msgUnauthorized
	case errors.Is(err, model.ErrInvalidID):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = "ID invalido."
	case errors.Is(err, model.ErrProductNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Error = "Producto no encontrado."
	case errors.Is(err, model.ErrSlugTaken):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Error = "Ya existe un producto con ese slug."
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Error = "El registro ya existe."
	case errors.Is(err, model.ErrImageRequired):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = "Archivo requerido."
	case errors.Is(err, model.ErrImageType), errors.Is(err, model.ErrImageUndecodable):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = "Formato de imagen no permitido."
	case errors.Is(err, model.ErrImageSize):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = "La imagen debe pesar entre 1 byte y 5MB."
	case errors.Is(err, model.ErrImageExtension):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = "No se pudo determinar la extension del archivo."
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Error = msgInvalidProduct
		body.Details = inputDetails(err)
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}

// requireAdmin re-derives the caller from the session cookie and answers
// 401 when there is none, whatever ran before the handler.
func requireAdmin(v auth.Verifier, w http.ResponseWriter, r *http.Request) (model.AdminClaims, bool) {
	claims, ok := auth.AdminFromRequest(v, r)
	if !ok {
		writeError(w, apierror.Unauthorized(msgUnauthorized))
		return model.AdminClaims{}, false
	}
	return claims, true
}
