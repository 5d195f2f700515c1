package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequenceRepository handles the per-date quotation number
// counter. Every quotation number draws from one serialized row per
// issue date, so numbers within a date are gapless and unique no
// matter how many requests arrive concurrently.
type DocumentSequenceRepository struct {
	db *gorm.DB
}

// NewDocumentSequenceRepository creates a new DocumentSequenceRepository
func NewDocumentSequenceRepository(db *gorm.DB) *DocumentSequenceRepository {
	return &DocumentSequenceRepository{db: db}
}

// NextSequence atomically retrieves and increments the counter for the
// given date (YYYYMMDD). The counter row is seeded with ON CONFLICT DO
// NOTHING so concurrent first callers cannot race the insert, then the
// increment serializes on a SELECT FOR UPDATE of that row.
func (r *DocumentSequenceRepository) NextSequence(ctx context.Context, seqDate string) (int, error) {
	var seq domain.DocumentSequence
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := domain.DocumentSequence{
			SeqDate:      seqDate,
			LastSequence: 0,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seq_date"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed document sequence: %w", err)
		}

		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("seq_date = ?", seqDate).
			First(&seq)
		if result.Error != nil {
			return fmt.Errorf("failed to get document sequence: %w", result.Error)
		}

		nextSeq = seq.LastSequence + 1
		if err := tx.Model(&seq).Updates(map[string]interface{}{
			"last_sequence": nextSeq,
			"updated_at":    time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update document sequence: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// CurrentSequence retrieves the last used value without incrementing.
// Returns 0 if no quotation has been numbered on the date yet.
func (r *DocumentSequenceRepository) CurrentSequence(ctx context.Context, seqDate string) (int, error) {
	var seq domain.DocumentSequence
	result := r.db.WithContext(ctx).
		Where("seq_date = ?", seqDate).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get document sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}

// SetSequence raises the counter to a specific value. Used by data
// imports that bring in quotations numbered elsewhere; the counter is
// never lowered.
func (r *DocumentSequenceRepository) SetSequence(ctx context.Context, seqDate string, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.DocumentSequence
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("seq_date = ?", seqDate).
			First(&seq)

		if result.Error == gorm.ErrRecordNotFound {
			seq = domain.DocumentSequence{
				SeqDate:      seqDate,
				LastSequence: value,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create document sequence: %w", err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to get document sequence: %w", result.Error)
		} else if value > seq.LastSequence {
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": value,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update document sequence: %w", err)
			}
		}

		return nil
	})
}
