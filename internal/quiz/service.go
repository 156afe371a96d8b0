package quiz

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/validation"
)

type questionPicker interface {
	Random(ctx context.Context, filter repository.QuestionFilter) (repository.Question, error)
}

type categoryLookup interface {
	GetByID(ctx context.Context, id int) (repository.Category, error)
}

// Service draws the next quiz question.
type Service struct {
	questions  questionPicker
	categories categoryLookup
	validate   *validation.Validator
	logger     zerolog.Logger
}

func NewService(questions questionPicker, categories categoryLookup, logger zerolog.Logger) *Service {
	return &Service{
		questions:  questions,
		categories: categories,
		validate:   validation.New(),
		logger:     logger.With().Str("component", "quiz").Logger(),
	}
}

// Next returns a random unseen question from the requested category, or nil
// when every candidate has already been played.
func (s *Service) Next(ctx context.Context, req PlayRequest) (*question.Question, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.QuizCategory.ID < 0 {
		return nil, validation.Invalid("quiz_category.id", "must not be negative")
	}

	filter := repository.QuestionFilter{ExcludeIDs: *req.PreviousQuestions}
	if req.Filtered() {
		categoryID := int(req.QuizCategory.ID)
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		filter.CategoryID = categoryID
	}

	picked, err := s.questions.Random(ctx, filter)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug().
				Int("category", filter.CategoryID).
				Int("played", len(filter.ExcludeIDs)).
				Msg("quiz exhausted")
			return nil, nil
		}
		return nil, err
	}
	q := question.FromRecord(picked)
	return &q, nil
}
