package notification

import (
	"context"

	"github.com/goalcast/goalcast/internal/domain/achievement"
)

// Notifier is the outbound notification collaborator. Implementations are
// best-effort: callers log failures and never roll back scoring or unlocks
// because of them.
type Notifier interface {
	AchievementUnlocked(ctx context.Context, userID string, def achievement.Definition) error
	MatchScored(ctx context.Context, userID, matchID string, points int) error
}

// NopNotifier discards every event. Used when no webhook endpoint is
// configured.
type NopNotifier struct{}

func (NopNotifier) AchievementUnlocked(context.Context, string, achievement.Definition) error {
	return nil
}

func (NopNotifier) MatchScored(context.Context, string, string, int) error {
	return nil
}
