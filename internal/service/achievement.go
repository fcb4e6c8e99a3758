package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

// AchievementService evaluates the achievement catalog against a user's
// recomputed statistics and persists newly crossed unlocks.
type AchievementService struct {
	stats   *StatsService
	unlocks UnlockStore
	logger  *slog.Logger
}

// NewAchievementService creates a new achievement service.
func NewAchievementService(stats *StatsService, unlocks UnlockStore, logger *slog.Logger) *AchievementService {
	return &AchievementService{
		stats:   stats,
		unlocks: unlocks,
		logger:  logger,
	}
}

// Evaluate returns the status of every catalog achievement for a user,
// in catalog order. Persisted unlocks are authoritative: once stored, an
// achievement stays unlocked with its original earned timestamp even if
// the recomputed progress value later falls below the threshold.
// Thresholds newly crossed during this evaluation are persisted before
// the call returns. The stats snapshot the evaluation ran against is
// returned alongside so callers can show both without recomputing.
func (s *AchievementService) Evaluate(ctx context.Context, userID string) ([]domain.AchievementStatus, *domain.UserStats, error) {
	stats, facts, err := s.stats.ComputeStatsAndFacts(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.unlocks.GetUnlocksForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]domain.AchievementStatus, 0, len(domain.Catalog))
	for _, def := range domain.Catalog {
		status := domain.AchievementStatus{
			AchievementDefinition: def,
			ProgressValue:         def.Requirement.ProgressValue(stats, facts),
		}

		if unlock, ok := stored[def.ID]; ok {
			status.Unlocked = true
			earned := unlock.EarnedAt
			status.EarnedAt = &earned
		} else if status.ProgressValue >= def.RequirementValue {
			unlock := domain.AchievementUnlock{
				UserID:        userID,
				AchievementID: def.ID,
				EarnedAt:      time.Now(),
			}
			persisted, created, err := s.unlocks.InsertUnlockIfAbsent(ctx, &unlock)
			if err != nil {
				return nil, nil, err
			}
			if created {
				s.logger.Info("achievement unlocked",
					"user_id", userID,
					"achievement_id", def.ID,
				)
			}
			status.Unlocked = true
			earned := persisted.EarnedAt
			status.EarnedAt = &earned
		}

		statuses = append(statuses, status)
	}

	return statuses, stats, nil
}

// NextGoal picks the locked achievement closest to being earned: the
// smallest gap between threshold and current progress, with catalog
// order breaking ties. Nil when everything is unlocked.
func NextGoal(statuses []domain.AchievementStatus) *domain.AchievementStatus {
	var next *domain.AchievementStatus
	for i := range statuses {
		status := &statuses[i]
		if status.Unlocked {
			continue
		}
		if next == nil || status.Gap() < next.Gap() {
			next = status
		}
	}
	return next
}
