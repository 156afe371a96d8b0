package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/validation"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
	"github.com/gokatarajesh/trivia-api/pkg/http/request"
)

// HTTPHandler serves POST /quizzes.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Play returns the next question of a quiz round.
func (h *HTTPHandler) Play(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req PlayRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, request.ErrMalformedJSON) {
			httperrors.RespondBadRequest(w)
			return
		}
		logger.Debug().Err(err).Msg("quiz body rejected")
		httperrors.RespondUnprocessable(w)
		return
	}

	next, err := h.service.Next(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("quiz deadline exceeded")
		httperrors.RespondRequestTimeout(w)
		return
	case validation.IsValidation(err), errors.Is(err, ErrUnknownCategory):
		logger.Debug().Err(err).Msg("quiz request rejected")
		httperrors.RespondUnprocessable(w)
		return
	default:
		logger.Error().Err(err).Msg("quiz question lookup failed")
		httperrors.RespondUnprocessable(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Question: next})
}
