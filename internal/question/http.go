package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/pagination"
	"github.com/gokatarajesh/trivia-api/internal/validation"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
	"github.com/gokatarajesh/trivia-api/pkg/http/request"
)

// HTTPHandlers exposes the question service over HTTP.
type HTTPHandlers struct {
	service *Service
}

func NewHTTPHandlers(service *Service) *HTTPHandlers {
	return &HTTPHandlers{service: service}
}

type categoriesResponse struct {
	Success    bool        `json:"success"`
	Categories CategoryMap `json:"categories"`
}

type listResponse struct {
	Success         bool        `json:"success"`
	Questions       []Question  `json:"questions"`
	TotalQuestions  int64       `json:"total_questions"`
	Categories      CategoryMap `json:"categories"`
	CurrentCategory *string     `json:"current_category"`
}

type pageResponse struct {
	Success        bool       `json:"success"`
	Questions      []Question `json:"questions"`
	TotalQuestions int64      `json:"total_questions"`
}

type categoryPageResponse struct {
	Success         bool       `json:"success"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int64      `json:"total_questions"`
	CurrentCategory string     `json:"current_category"`
}

type deletedResponse struct {
	Success        bool       `json:"success"`
	Deleted        int        `json:"deleted"`
	Questions      []Question `json:"questions"`
	TotalQuestions int64      `json:"total_questions"`
}

type createdResponse struct {
	Success        bool       `json:"success"`
	Created        int        `json:"created"`
	Questions      []Question `json:"questions"`
	TotalQuestions int64      `json:"total_questions"`
}

// ListCategories handles GET /categories.
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

// ListQuestions handles GET /questions.
func (h *HTTPHandlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.Total,
		Categories:      page.Categories,
		CurrentCategory: nil,
	})
}

// DeleteQuestion handles DELETE /questions/{questionID}.
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	result, err := h.service.Delete(r.Context(), id, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusOK, deletedResponse{
		Success:        true,
		Deleted:        result.ID,
		Questions:      result.Questions,
		TotalQuestions: result.Total,
	})
}

// CreateQuestion handles POST /questions.
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	result, err := h.service.Create(r.Context(), req, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	respondJSON(w, http.StatusOK, createdResponse{
		Success:        true,
		Created:        result.ID,
		Questions:      result.Questions,
		TotalQuestions: result.Total,
	})
}

// SearchQuestions handles POST /questions/search.
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	page, err := h.service.Search(r.Context(), req.SearchTerm, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, pageResponse{
		Success:        true,
		Questions:      page.Questions,
		TotalQuestions: page.Total,
	})
}

// QuestionsByCategory handles GET /categories/{categoryID}/questions.
func (h *HTTPHandlers) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	page, err := h.service.ByCategory(r.Context(), id, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	current := ""
	if page.CurrentCategory != nil {
		current = *page.CurrentCategory
	}
	respondJSON(w, http.StatusOK, categoryPageResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.Total,
		CurrentCategory: current,
	})
}

// respondError maps service errors to statuses. Anything unrecognised gets
// fallback and is logged, never echoed.
func (h *HTTPHandlers) respondError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	logger := logging.FromContext(r.Context())
	switch {
	case errors.Is(err, request.ErrMalformedJSON):
		httperrors.RespondBadRequest(w)
	case errors.Is(err, request.ErrInvalidBody):
		logger.Debug().Err(err).Msg("request body rejected")
		httperrors.RespondUnprocessable(w)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmptySearchTerm):
		httperrors.RespondNotFound(w)
	case validation.IsValidation(err):
		logger.Debug().Err(err).Msg("validation failed")
		httperrors.RespondUnprocessable(w)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("request deadline exceeded")
		httperrors.RespondRequestTimeout(w)
	case repository.IsConstraintViolation(err), repository.IsDataException(err):
		logger.Warn().Err(err).Msg("value rejected by database")
		httperrors.RespondUnprocessable(w)
	default:
		logger.Error().Err(err).Int("status", fallback).Msg("question request failed")
		httperrors.RespondError(w, fallback)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
