package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/pagination"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/quiz"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type fakeStore struct {
	categories []repository.Category
	questions  []repository.Question
}

func (s *fakeStore) List(ctx context.Context, filter repository.QuestionFilter, page pagination.Page) ([]repository.Question, int64, error) {
	var matched []repository.Question
	for _, q := range s.questions {
		if filter.CategoryID > 0 && q.Category != filter.CategoryID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(q.Question), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, q)
	}
	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit(), len(matched))
	return append([]repository.Question{}, matched[start:end]...), int64(len(matched)), nil
}

func (s *fakeStore) Create(ctx context.Context, q *repository.Question) error {
	q.ID = len(s.questions) + 1
	s.questions = append(s.questions, *q)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int) error {
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeStore) Random(ctx context.Context, filter repository.QuestionFilter) (repository.Question, error) {
	for _, q := range s.questions {
		if filter.CategoryID == 0 || q.Category == filter.CategoryID {
			return q, nil
		}
	}
	return repository.Question{}, repository.ErrNotFound
}

type fakeCategories struct{ rows []repository.Category }

func (c fakeCategories) List(ctx context.Context) ([]repository.Category, error) { return c.rows, nil }

func (c fakeCategories) GetByID(ctx context.Context, id int) (repository.Category, error) {
	for _, row := range c.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return repository.Category{}, repository.ErrNotFound
}

func testConfig() *config.App {
	return &config.App{
		RequestTimeout: time.Second,
		CORS: config.CORS{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         600,
		},
	}
}

func newTestRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	store := &fakeStore{questions: []repository.Question{
		{ID: 1, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		{ID: 2, Question: "La Giaconda is better known as what?", Answer: "Mona Lisa", Category: 2, Difficulty: 3},
	}}
	categories := fakeCategories{rows: []repository.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}}
	logger := zerolog.Nop()

	if deps.Questions == nil {
		deps.Questions = question.NewHTTPHandlers(question.NewService(store, categories, logger))
	}
	if deps.Quiz == nil {
		deps.Quiz = quiz.NewHTTPHandler(quiz.NewService(store, categories, logger))
	}
	return NewRouter(testConfig(), logger, deps)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	rec := do(newTestRouter(t, Dependencies{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := do(newTestRouter(t, Dependencies{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":404,"message":"Resource Not Found"}`, rec.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	for _, tc := range []struct{ method, target string }{
		{http.MethodPatch, "/questions/1"},
		{http.MethodPost, "/categories"},
		{http.MethodGet, "/quizzes"},
	} {
		rec := do(router, tc.method, tc.target, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tc.target)
		assert.JSONEq(t, `{"success":false,"error":405,"message":"Method Not Allowed"}`, rec.Body.String())
	}
}

func TestRouter_CORSHeaders(t *testing.T) {
	rec := do(newTestRouter(t, Dependencies{}), http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET, POST, PATCH, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_Preflight(t *testing.T) {
	rec := do(newTestRouter(t, Dependencies{}), http.MethodOptions, "/questions/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestRouter_ErrorResponsesCarryCORS(t *testing.T) {
	rec := do(newTestRouter(t, Dependencies{}), http.MethodGet, "/questions?page=1000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_TriviaFlow(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	rec := do(router, http.MethodGet, "/categories/2/questions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_category":"Art"`)

	rec = do(router, http.MethodPost, "/questions/search", `{"searchTerm":"PENICILLIN"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_questions":1`)

	rec = do(router, http.MethodPost, "/questions", `{"question":"What is the largest lake in Africa?","answer":"Lake Victoria","category":"1","difficulty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":3`)

	rec = do(router, http.MethodDelete, "/questions/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":3`)

	rec = do(router, http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"type":"Art","id":2}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)
}

func TestRouter_AdminGuardOnlyOnWrites(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondUnauthorized(w)
		})
	}
	router := newTestRouter(t, Dependencies{AdminGuard: deny})

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodDelete, "/questions/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/questions", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/questions", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/questions/search", `{"searchTerm":"a"}`).Code)
}

func TestRouter_RateLimitOnWriteAndQuizRoutes(t *testing.T) {
	var limited []string
	limiter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited = append(limited, r.Method+" "+r.URL.Path)
			httperrors.RespondTooManyRequests(w)
		})
	}
	router := newTestRouter(t, Dependencies{RateLimit: limiter})

	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodPost, "/quizzes", `{}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodPost, "/questions/search", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/categories", "").Code)
	assert.Equal(t, []string{"POST /quizzes", "POST /questions/search"}, limited)
}

func TestRouter_PingReportsFailure(t *testing.T) {
	router := newTestRouter(t, Dependencies{Pingers: map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return errors.New("down") }),
	}})

	rec := do(router, http.MethodGet, "/v1/ping", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "down")
}

func TestRouter_PingOK(t *testing.T) {
	router := newTestRouter(t, Dependencies{Pingers: map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
	}})

	rec := do(router, http.MethodGet, "/v1/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":true}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	m := metrics.NewHTTP(prometheus.NewRegistry())
	router := newTestRouter(t, Dependencies{Metrics: m})

	do(router, http.MethodGet, "/categories", "")
	rec := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/categories"`)
}

func TestRouter_PanicBecomes500(t *testing.T) {
	handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := do(handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":500,"message":"Internal Server Error"}`, rec.Body.String())
}

func TestDeadlineSetsContextTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Deadline(50*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))
	do(h, http.MethodGet, "/", "")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, time.Second)
}
