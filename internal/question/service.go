package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/pagination"
	"github.com/gokatarajesh/trivia-api/internal/validation"
)

type questionStore interface {
	List(ctx context.Context, filter repository.QuestionFilter, page pagination.Page) ([]repository.Question, int64, error)
	Create(ctx context.Context, q *repository.Question) error
	Delete(ctx context.Context, id int) error
}

type categoryStore interface {
	List(ctx context.Context) ([]repository.Category, error)
	GetByID(ctx context.Context, id int) (repository.Category, error)
}

// Service implements the question and category operations of the API.
type Service struct {
	questions  questionStore
	categories categoryStore
	validate   *validation.Validator
	logger     zerolog.Logger
}

func NewService(questions questionStore, categories categoryStore, logger zerolog.Logger) *Service {
	return &Service{
		questions:  questions,
		categories: categories,
		validate:   validation.New(),
		logger:     logger.With().Str("component", "question").Logger(),
	}
}

// Categories returns every category keyed by id, or ErrNotFound when there are none.
func (s *Service) Categories(ctx context.Context) (CategoryMap, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	out := make(CategoryMap, len(rows))
	for _, c := range rows {
		out[c.ID] = c.Type
	}
	return out, nil
}

// List returns a page of all questions with the category map attached.
func (s *Service) List(ctx context.Context, page pagination.Page) (Page, error) {
	rows, total, err := s.questions.List(ctx, repository.QuestionFilter{}, page)
	if err != nil {
		return Page{}, err
	}
	if len(rows) == 0 {
		return Page{}, ErrNotFound
	}
	categories, err := s.Categories(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Page{}, err
	}
	if categories == nil {
		categories = CategoryMap{}
	}
	return Page{
		Questions:  fromRecords(rows),
		Total:      total,
		Categories: categories,
	}, nil
}

// Delete removes a question and returns the requested page of what remains.
func (s *Service) Delete(ctx context.Context, id int, page pagination.Page) (Mutation, error) {
	if id <= 0 {
		return Mutation{}, ErrNotFound
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Mutation{}, ErrNotFound
		}
		return Mutation{}, err
	}
	s.logger.Info().Int("question_id", id).Msg("question deleted")

	return s.mutation(ctx, id, page)
}

// Create validates and stores a new question and returns the requested page.
func (s *Service) Create(ctx context.Context, req CreateRequest, page pagination.Page) (Mutation, error) {
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if err := s.validate.Struct(req); err != nil {
		return Mutation{}, err
	}

	record := &repository.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   int(req.Category),
		Difficulty: req.Difficulty,
	}
	if err := s.questions.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrUnknownCategory) {
			return Mutation{}, validation.Invalid("category", fmt.Sprintf("category %d does not exist", req.Category))
		}
		return Mutation{}, err
	}
	s.logger.Info().Int("question_id", record.ID).Int("category", record.Category).Msg("question created")

	return s.mutation(ctx, record.ID, page)
}

func (s *Service) mutation(ctx context.Context, id int, page pagination.Page) (Mutation, error) {
	rows, total, err := s.questions.List(ctx, repository.QuestionFilter{}, page)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{ID: id, Questions: fromRecords(rows), Total: total}, nil
}

// Search matches term case-insensitively against question text. No matches
// at all yields an empty page; a page past the last match is ErrNotFound.
func (s *Service) Search(ctx context.Context, term string, page pagination.Page) (Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Page{}, ErrEmptySearchTerm
	}
	if strings.ContainsRune(term, 0) {
		return Page{}, validation.Invalid("searchTerm", "must not contain NUL bytes")
	}
	rows, total, err := s.questions.List(ctx, repository.QuestionFilter{Search: term}, page)
	if err != nil {
		return Page{}, err
	}
	if len(rows) == 0 && total > 0 {
		return Page{}, ErrNotFound
	}
	return Page{Questions: fromRecords(rows), Total: total}, nil
}

// ByCategory returns a page of the questions in one category.
func (s *Service) ByCategory(ctx context.Context, categoryID int, page pagination.Page) (Page, error) {
	if categoryID <= 0 {
		return Page{}, ErrNotFound
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	rows, total, err := s.questions.List(ctx, repository.QuestionFilter{CategoryID: categoryID}, page)
	if err != nil {
		return Page{}, err
	}
	if len(rows) == 0 {
		return Page{}, ErrNotFound
	}
	current := category.Type
	return Page{Questions: fromRecords(rows), Total: total, CurrentCategory: &current}, nil
}
