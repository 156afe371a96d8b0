package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

var (
	// ErrNotFound covers empty pages, unknown ids and an empty category table.
	ErrNotFound = errors.New("resource not found")
	// ErrEmptySearchTerm is returned for a missing or blank search term.
	ErrEmptySearchTerm = errors.New("search term is empty")
)

// Question is the wire form of a trivia question.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// FromRecord converts a stored row to its wire form.
func FromRecord(r repository.Question) Question {
	return Question{
		ID:         r.ID,
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   r.Category,
		Difficulty: r.Difficulty,
	}
}

func fromRecords(rows []repository.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRecord(r))
	}
	return out
}

// CategoryMap maps category id to its display type. JSON encodes the keys as strings.
type CategoryMap map[int]string

// CategoryRef is a category id accepted either as a JSON number or a numeric string.
type CategoryRef int

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("category %s is not an integer id", string(data))
	}
	*c = CategoryRef(id)
	return nil
}

// CreateRequest is the body of POST /questions.
type CreateRequest struct {
	Question   string      `json:"question" validate:"required"`
	Answer     string      `json:"answer" validate:"required"`
	Category   CategoryRef `json:"category" validate:"required,gt=0"`
	Difficulty int         `json:"difficulty" validate:"required,min=1,max=5"`
}

// SearchRequest is the body of POST /questions/search.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// Page is one page of questions with the count of everything that matched.
type Page struct {
	Questions       []Question
	Total           int64
	Categories      CategoryMap
	CurrentCategory *string
}

// Mutation is the outcome of a create or delete together with the refreshed page.
type Mutation struct {
	ID        int
	Questions []Question
	Total     int64
}
