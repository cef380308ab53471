package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

// ErrorResponse is the Body of a failed request.
type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const internalErrorJSON = `{"Status":500,"Body":{"ErrorDescription":"internal server error"}}`

func writeResponse(w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeResponse(w, status, ErrorResponse{ErrorDescription: msg})
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(internalErrorJSON))
}

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrSessionNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrAmbiguousPromotion),
		stderrors.Is(err, errors.ErrGameOver),
		stderrors.Is(err, errors.ErrNoHistory):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, errors.ErrInvalidSAN),
		stderrors.Is(err, errors.ErrInvalidFEN):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
