package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog"
)

const (
	maxJSONBodyBytes = 1 << 20
	maxResponseSize  = 10 * 1024 * 1024
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

type Responder struct {
	logger     zerolog.Logger
	production bool
}

func NewResponder(logger zerolog.Logger, production bool) Responder {
	return Responder{logger: logger, production: production}
}

func (r Responder) writeEnvelope(w http.ResponseWriter, status int, body Envelope) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(Envelope{Message: "The requested data exceeds the maximum response size"})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteJSON writes a 200 success envelope around data.
func (r Responder) WriteJSON(w http.ResponseWriter, message string, data any) {
	r.writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func (r Responder) WriteCreated(w http.ResponseWriter, message string, data any) {
	r.writeEnvelope(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes the failure envelope for err. Details and causes are only
// exposed outside production.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		body := Envelope{Message: "An unexpected error occurred"}
		if !r.production {
			body.Cause = err.Error()
		}
		r.writeEnvelope(w, http.StatusInternalServerError, body)
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Int("status", apiErr.StatusCode).Msg(apiErr.GetFullError())
	}

	body := Envelope{Message: apiErr.Message(), Field: apiErr.Field}
	if !r.production {
		body.Details = apiErr.Details
		if apiErr.Cause != nil {
			body.Cause = apiErr.GetFullError()
		}
	}
	r.writeEnvelope(w, apiErr.StatusCode, body)
}

// decodeJSON reads a JSON request body into dst, capped at maxJSONBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadName string, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.Malformed(payloadName)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeError(maxErr.Limit)
		}
		return nil, errs.BadRequest("could not read request body")
	}
	return body, nil
}
