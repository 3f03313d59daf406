package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachd/models"
)

// MarketingUpdateHook is a synchronous post-update callback. It receives the
// old and new row images and the transaction of the originating update; a
// non-nil error rolls the whole update back.
type MarketingUpdateHook func(tx *gorm.DB, old, updated models.CandidateMarketing) error

// CandidateStore owns writes to candidate marketing rows and fans every
// update out to the registered hooks inside the same transaction.
type CandidateStore struct {
	DB     *gorm.DB
	Logger *logrus.Logger

	hooks []MarketingUpdateHook
}

func NewCandidateStore(db *gorm.DB, logger *logrus.Logger) *CandidateStore {
	return &CandidateStore{
		DB:     db,
		Logger: logger,
	}
}

// RegisterHook adds a post-update callback. Not safe to call concurrently
// with UpdateMarketing; register everything during wiring.
func (cs *CandidateStore) RegisterHook(hook MarketingUpdateHook) {
	cs.hooks = append(cs.hooks, hook)
}

// UpdateMarketing applies the given column changes to a candidate's
// marketing row and invokes every registered hook with the old and new row
// images. Update and hook side effects commit or roll back together.
func (cs *CandidateStore) UpdateMarketing(ctx context.Context, candidateID uint, changes map[string]interface{}) error {
	return cs.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.CandidateMarketing
		if err := tx.Where("candidate_id = ?", candidateID).First(&old).Error; err != nil {
			return fmt.Errorf("loading marketing row for candidate %d: %w", candidateID, err)
		}

		if err := tx.Model(&models.CandidateMarketing{}).
			Where("candidate_id = ?", candidateID).
			Updates(changes).Error; err != nil {
			return fmt.Errorf("updating marketing row for candidate %d: %w", candidateID, err)
		}

		var updated models.CandidateMarketing
		if err := tx.Where("candidate_id = ?", candidateID).First(&updated).Error; err != nil {
			return fmt.Errorf("reloading marketing row for candidate %d: %w", candidateID, err)
		}

		for _, hook := range cs.hooks {
			if err := hook(tx, old, updated); err != nil {
				cs.Logger.WithFields(logrus.Fields{
					"candidate_id": candidateID,
				}).WithError(err).Error("update hook failed, rolling back")
				return fmt.Errorf("update hook: %w", err)
			}
		}
		return nil
	})
}
