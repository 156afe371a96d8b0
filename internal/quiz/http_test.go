package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

func postQuiz(h *HTTPHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/quizzes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Play(rec, req)
	return rec
}

func TestHTTP_PlayReturnsQuestion(t *testing.T) {
	svc, picker, categories := newTestService()
	categories.On("GetByID", mock.Anything, 1).Return(repository.Category{ID: 1, Type: "Science"}, nil)
	picker.On("Random", mock.Anything, repository.QuestionFilter{CategoryID: 1, ExcludeIDs: []int{20}}).
		Return(repository.Question{ID: 21, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3}, nil)

	rec := postQuiz(NewHTTPHandler(svc), `{"previous_questions":[20],"quiz_category":{"type":"Science","id":"1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success  bool `json:"success"`
		Question struct {
			ID       int `json:"id"`
			Category int `json:"category"`
		} `json:"question"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 21, body.Question.ID)
	assert.Equal(t, 1, body.Question.Category)
}

func TestHTTP_PlayFinished(t *testing.T) {
	svc, picker, _ := newTestService()
	picker.On("Random", mock.Anything, mock.Anything).Return(repository.Question{}, repository.ErrNotFound)

	rec := postQuiz(NewHTTPHandler(svc), `{"previous_questions":[1,2,3],"quiz_category":{"type":"click","id":0}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"question":null}`, rec.Body.String())
}

func TestHTTP_PlayRejectsIncompleteBody(t *testing.T) {
	bodies := []string{
		`{"previous_questions":[]}`,
		`{"quiz_category":{"id":1,"type":"Science"}}`,
		`{"previous_questions":null,"quiz_category":{"id":1}}`,
		`{"previous_questions":"1,2","quiz_category":{"id":1}}`,
		``,
	}
	for _, payload := range bodies {
		svc, picker, _ := newTestService()
		rec := postQuiz(NewHTTPHandler(svc), payload)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, payload)
		assert.JSONEq(t, `{"success":false,"error":422,"message":"Unprocessable"}`, rec.Body.String())
		picker.AssertNotCalled(t, "Random", mock.Anything, mock.Anything)
	}
}

func TestHTTP_PlayUnknownCategory(t *testing.T) {
	svc, _, categories := newTestService()
	categories.On("GetByID", mock.Anything, 99).Return(repository.Category{}, repository.ErrNotFound)

	rec := postQuiz(NewHTTPHandler(svc), `{"previous_questions":[],"quiz_category":{"id":99}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHTTP_PlayStorageFailure(t *testing.T) {
	svc, picker, _ := newTestService()
	picker.On("Random", mock.Anything, mock.Anything).Return(repository.Question{}, errors.New("connection refused"))

	rec := postQuiz(NewHTTPHandler(svc), `{"previous_questions":[],"quiz_category":{"id":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestHTTP_PlayMalformedJSON(t *testing.T) {
	svc, _, _ := newTestService()

	rec := postQuiz(NewHTTPHandler(svc), `{"previous_questions":[`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
