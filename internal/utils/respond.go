package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/milkapi"
)

// Toast is the console's notification body.
type Toast struct {
	Status   string            `json:"status"`
	Msg      string            `json:"msg"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Data     any               `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, msg string, data any) {
	WriteJSON(w, http.StatusOK, Toast{Status: "success", Msg: msg, Data: data})
}

func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Toast{Status: "error", Msg: msg})
}

// ValidationFailed answers 422 with one message per invalid field.
func ValidationFailed(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, Toast{
		Status: "error",
		Msg:    "Please correct the highlighted fields.",
		Fields: fields,
	})
}

// BackendError renders a failed milk-api call. A refusal from the backend shows
// its own message (or fallback when it sent none); anything else is a 502 with
// fallback.
func BackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if apiErr, ok := milkapi.IsAPIError(err); ok {
		msg := apiErr.Msg
		if msg == "" {
			msg = fallback
		}
		Error(w, http.StatusBadRequest, msg)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("milk-api call failed")
	if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
		Error(w, http.StatusGatewayTimeout, fallback)
		return
	}
	Error(w, http.StatusBadGateway, fallback)
}
