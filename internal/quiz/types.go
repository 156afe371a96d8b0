package quiz

import (
	"errors"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// AllCategories is the quiz_category id meaning "draw from every category".
const AllCategories = 0

// ErrUnknownCategory is returned when quiz_category names a category that does not exist.
var ErrUnknownCategory = errors.New("quiz category does not exist")

// Category identifies the category being played. Type is informational.
type Category struct {
	ID   question.CategoryRef `json:"id" validate:"gte=0"`
	Type string               `json:"type"`
}

// PlayRequest is the body of POST /quizzes. The client keeps the game state
// and sends back every question id it has already seen.
type PlayRequest struct {
	PreviousQuestions *[]int    `json:"previous_questions" validate:"required"`
	QuizCategory      *Category `json:"quiz_category" validate:"required"`
}

// Filtered reports whether the request restricts play to one category.
func (r PlayRequest) Filtered() bool {
	return r.QuizCategory != nil && int(r.QuizCategory.ID) != AllCategories
}

// Response is the body of a successful POST /quizzes. A nil Question means the
// quiz is finished.
type Response struct {
	Success  bool               `json:"success"`
	Question *question.Question `json:"question"`
}
