package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gokatarajesh/trivia-api/internal/pagination"
)

// QuestionFilter narrows question queries. Zero values apply no restriction.
type QuestionFilter struct {
	CategoryID int
	Search     string
	ExcludeIDs []int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f QuestionFilter) apply(db *gorm.DB) *gorm.DB {
	if f.CategoryID > 0 {
		db = db.Where("category = ?", f.CategoryID)
	}
	if f.Search != "" {
		db = db.Where("question ILIKE ?", "%"+likeEscaper.Replace(f.Search)+"%")
	}
	// An empty NOT IN list would exclude every row.
	if len(f.ExcludeIDs) > 0 {
		db = db.Where("id NOT IN ?", f.ExcludeIDs)
	}
	return db
}

// QuestionRepository is the gorm-backed question store.
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns one page of matching questions ordered by id, plus the number
// of questions matching the filter.
func (r *QuestionRepository) List(ctx context.Context, filter QuestionFilter, page pagination.Page) ([]Question, int64, error) {
	var total int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&Question{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	questions := []Question{}
	err := filter.apply(r.db.WithContext(ctx)).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&questions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	return questions, total, nil
}

// Create inserts q after checking its category exists. The generated id is
// written back into q.
func (r *QuestionRepository) Create(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Category{}).Where("id = ?", q.Category).Count(&n).Error; err != nil {
			return fmt.Errorf("check category %d: %w", q.Category, err)
		}
		if n == 0 {
			return ErrUnknownCategory
		}
		if err := tx.Create(q).Error; err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		return nil
	})
}

// Delete removes the question with id, or returns ErrNotFound.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q Question
		if err := tx.Where("id = ?", id).First(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load question %d: %w", id, err)
		}
		if err := tx.Delete(&q).Error; err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
		return nil
	})
}

// Random returns one uniformly chosen question matching filter, or
// ErrNotFound when nothing matches.
func (r *QuestionRepository) Random(ctx context.Context, filter QuestionFilter) (Question, error) {
	var q Question
	err := filter.apply(r.db.WithContext(ctx)).Order("RANDOM()").Take(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Question{}, ErrNotFound
		}
		return Question{}, fmt.Errorf("pick question: %w", err)
	}
	return q, nil
}
