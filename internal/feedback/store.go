package feedback

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"llmrouter/internal/errs"
	"llmrouter/internal/models"
)

// Store is the append-only ledger of generations and the human ratings
// attached to them. Ratings are validated on write and never mutated.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// RecordGeneration appends an engine response to the ledger and returns
// its message id, the handle feedback submissions reference.
func (s *Store) RecordGeneration(gen *models.Generation) (uint, error) {
	if err := s.db.Create(gen).Error; err != nil {
		return 0, fmt.Errorf("failed to record generation: %w", err)
	}
	return gen.ID, nil
}

// GetGeneration fetches one ledger entry by message id.
func (s *Store) GetGeneration(messageID uint) (*models.Generation, error) {
	var gen models.Generation
	if err := s.db.First(&gen, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.ValidationError{
				Field:   "message_id",
				Message: fmt.Sprintf("message %d not found", messageID),
			}
		}
		return nil, fmt.Errorf("failed to load generation: %w", err)
	}
	return &gen, nil
}

// RecordFeedback stores a rating for a previously generated message.
// Rejects out-of-range ratings and references to unknown messages with a
// ValidationError.
func (s *Store) RecordFeedback(messageID uint, sessionID string, rating int, comment string) (uint, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return 0, &errs.ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("rating %d outside range [%d,%d]", rating, models.MinRating, models.MaxRating),
		}
	}

	gen, err := s.GetGeneration(messageID)
	if err != nil {
		return 0, err
	}

	fb := models.Feedback{
		MessageID:  messageID,
		SessionID:  sessionID,
		Rating:     rating,
		Comment:    comment,
		EngineName: gen.EngineName,
	}
	if err := s.db.Create(&fb).Error; err != nil {
		return 0, fmt.Errorf("failed to store feedback: %w", err)
	}

	s.logger.Info("feedback recorded",
		zap.Uint("feedback_id", fb.ID),
		zap.Uint("message_id", messageID),
		zap.Int("rating", rating),
		zap.String("engine", gen.EngineName))
	return fb.ID, nil
}

// RecentFeedback is one rating joined with a preview of the prompt it
// rated.
type RecentFeedback struct {
	FeedbackID uint   `json:"feedback_id"`
	MessageID  uint   `json:"message_id"`
	SessionID  string `json:"session_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	EngineName string `json:"engine_name"`
	CreatedAt  string `json:"created_at"`
	Prompt     string `json:"prompt"`
}

// Recent returns the latest feedback rows, newest first.
func (s *Store) Recent(limit int) ([]RecentFeedback, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []struct {
		models.Feedback
		Prompt string
	}
	err := s.db.Model(&models.Feedback{}).
		Select("feedbacks.*, generations.prompt AS prompt").
		Joins("JOIN generations ON generations.id = feedbacks.message_id").
		Order("feedbacks.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent feedback: %w", err)
	}

	recent := make([]RecentFeedback, 0, len(rows))
	for _, row := range rows {
		prompt := row.Prompt
		if len(prompt) > 100 {
			prompt = prompt[:100] + "..."
		}
		recent = append(recent, RecentFeedback{
			FeedbackID: row.ID,
			MessageID:  row.MessageID,
			SessionID:  row.SessionID,
			Rating:     row.Rating,
			Comment:    row.Comment,
			EngineName: row.EngineName,
			CreatedAt:  row.CreatedAt.Format("2006-01-02 15:04:05"),
			Prompt:     prompt,
		})
	}
	return recent, nil
}
