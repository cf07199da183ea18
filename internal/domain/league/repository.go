package league

import "context"

// Repository describes the league collaborator surface this core reads.
// ListMemberIDs for the "general" league returns every known user.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListMemberIDs(ctx context.Context, leagueID string) ([]string, error)
}
