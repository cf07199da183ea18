package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/league"
	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/domain/userstats"
)

func intPtr(v int) *int { return &v }

func matchFixture(id, comp string, kickoff time.Time) match.Match {
	return match.Match{
		ID:          id,
		Competition: comp,
		HomeTeam:    "Home",
		AwayTeam:    "Away",
		KickoffAt:   kickoff,
		Status:      match.StatusScheduled,
	}
}

type stubPredictionRepository struct {
	mu             sync.Mutex
	items          map[string]prediction.Prediction
	updateBatchErr error
	batchCalls     int
}

func newStubPredictionRepository(items ...prediction.Prediction) *stubPredictionRepository {
	repo := &stubPredictionRepository{items: make(map[string]prediction.Prediction)}
	for _, item := range items {
		repo.items[prediction.Key(item.UserID, item.MatchID)] = item
	}
	return repo
}

func (r *stubPredictionRepository) Get(_ context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[prediction.Key(userID, matchID)]
	return item, ok, nil
}

func (r *stubPredictionRepository) Upsert(_ context.Context, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[prediction.Key(item.UserID, item.MatchID)] = item
	return nil
}

func (r *stubPredictionRepository) ListUnscoredByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Prediction
	for _, item := range r.items {
		if item.MatchID == matchID && !item.IsScored() {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *stubPredictionRepository) ListScoredByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Prediction
	for _, item := range r.items {
		if item.UserID == userID && item.IsScored() {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPredictionRepository) ListScoredByUserAndMatches(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	all, err := r.ListScoredByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}
	out := all[:0]
	for _, item := range all {
		if _, ok := wanted[item.MatchID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubPredictionRepository) UpdateBatch(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	if r.updateBatchErr != nil {
		return r.updateBatchErr
	}
	for _, item := range items {
		r.items[prediction.Key(item.UserID, item.MatchID)] = item
	}
	return nil
}

type stubResultRepository struct {
	mu    sync.Mutex
	fresh map[string]matchresult.MatchResult
	stale map[string]matchresult.MatchResult
	puts  int
}

func newStubResultRepository() *stubResultRepository {
	return &stubResultRepository{
		fresh: make(map[string]matchresult.MatchResult),
		stale: make(map[string]matchresult.MatchResult),
	}
}

func (r *stubResultRepository) Get(_ context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.fresh[matchID]
	return item, ok, nil
}

func (r *stubResultRepository) GetMany(_ context.Context, matchIDs []string) (map[string]matchresult.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]matchresult.MatchResult)
	for _, id := range matchIDs {
		if item, ok := r.fresh[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (r *stubResultRepository) Put(_ context.Context, result matchresult.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	r.fresh[result.MatchID] = result
	return nil
}

func (r *stubResultRepository) GetStale(_ context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.stale[matchID]
	return item, ok, nil
}

type stubMatchRepository struct {
	mu    sync.Mutex
	items map[string]match.Match
}

func newStubMatchRepository(items ...match.Match) *stubMatchRepository {
	repo := &stubMatchRepository{items: make(map[string]match.Match)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *stubMatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *stubMatchRepository) ListByCompetition(_ context.Context, comp string) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Match
	for _, item := range r.items {
		if item.Competition == comp {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubMatchRepository) ListRecentFinished(_ context.Context, since time.Time, limit int) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Match
	for _, item := range r.items {
		if item.Status == match.StatusFinished && !item.KickoffAt.Before(since) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KickoffAt.After(out[j].KickoffAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubStatsRepository struct {
	mu      sync.Mutex
	items   map[string]userstats.Statistics
	getErr  map[string]error
	upserts int
}

func newStubStatsRepository() *stubStatsRepository {
	return &stubStatsRepository{
		items:  make(map[string]userstats.Statistics),
		getErr: make(map[string]error),
	}
}

func (r *stubStatsRepository) Get(_ context.Context, userID string) (userstats.Statistics, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.getErr[userID]; err != nil {
		return userstats.Statistics{}, false, err
	}
	item, ok := r.items[userID]
	return item, ok, nil
}

func (r *stubStatsRepository) Upsert(_ context.Context, stats userstats.Statistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.items[stats.UserID] = stats
	return nil
}

type stubLeaderboardRepository struct {
	mu   sync.Mutex
	rows map[string][]leaderboard.Entry
}

func newStubLeaderboardRepository() *stubLeaderboardRepository {
	return &stubLeaderboardRepository{rows: make(map[string][]leaderboard.Entry)}
}

func boardKey(leagueID, period string) string { return leagueID + "_" + period }

func (r *stubLeaderboardRepository) ListByLeague(_ context.Context, leagueID, period string) ([]leaderboard.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.rows[boardKey(leagueID, period)]
	out := make([]leaderboard.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *stubLeaderboardRepository) ReplaceByLeague(_ context.Context, leagueID, period string, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]leaderboard.Entry, len(entries))
	copy(stored, entries)
	r.rows[boardKey(leagueID, period)] = stored
	return nil
}

func (r *stubLeaderboardRepository) GetEntry(_ context.Context, leagueID, period, userID string) (leaderboard.Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.rows[boardKey(leagueID, period)] {
		if entry.UserID == userID {
			return entry, true, nil
		}
	}
	return leaderboard.Entry{}, false, nil
}

type stubLeagueRepository struct {
	byID    map[string]league.League
	members map[string][]string
}

func (r *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	item, ok := r.byID[leagueID]
	return item, ok, nil
}

func (r *stubLeagueRepository) ListMemberIDs(_ context.Context, leagueID string) ([]string, error) {
	return r.members[leagueID], nil
}

type stubAchievementRepository struct {
	mu      sync.Mutex
	records map[string][]achievement.Record
	listErr error
	upserts int
}

func newStubAchievementRepository() *stubAchievementRepository {
	return &stubAchievementRepository{records: make(map[string][]achievement.Record)}
}

func (r *stubAchievementRepository) ListByUser(_ context.Context, userID string) ([]achievement.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]achievement.Record, len(r.records[userID]))
	copy(out, r.records[userID])
	return out, nil
}

func (r *stubAchievementRepository) UpsertBatch(_ context.Context, userID string, records []achievement.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	byID := make(map[string]int, len(r.records[userID]))
	for i, rec := range r.records[userID] {
		byID[rec.ID] = i
	}
	for _, rec := range records {
		if i, ok := byID[rec.ID]; ok {
			r.records[userID][i] = rec
			continue
		}
		r.records[userID] = append(r.records[userID], rec)
	}
	return nil
}

type notifierEvent struct {
	kind    string
	userID  string
	subject string
	points  int
}

type stubNotifier struct {
	mu     sync.Mutex
	events []notifierEvent
	err    error
}

func (n *stubNotifier) AchievementUnlocked(_ context.Context, userID string, def achievement.Definition) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{kind: "achievement", userID: userID, subject: def.ID})
	return n.err
}

func (n *stubNotifier) MatchScored(_ context.Context, userID, matchID string, points int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{kind: "match", userID: userID, subject: matchID, points: points})
	return n.err
}

func (n *stubNotifier) eventsOfKind(kind string) []notifierEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifierEvent
	for _, event := range n.events {
		if event.kind == kind {
			out = append(out, event)
		}
	}
	return out
}

type stubStatsApplier struct {
	mu      sync.Mutex
	applied map[string][]prediction.Evaluation
	failFor map[string]error
}

func newStubStatsApplier() *stubStatsApplier {
	return &stubStatsApplier{
		applied: make(map[string][]prediction.Evaluation),
		failFor: make(map[string]error),
	}
}

func (a *stubStatsApplier) ApplyEvaluation(_ context.Context, userID string, eval prediction.Evaluation) (userstats.Statistics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.failFor[userID]; err != nil {
		return userstats.Statistics{}, err
	}
	a.applied[userID] = append(a.applied[userID], eval)
	return userstats.Statistics{UserID: userID}, nil
}

type gatewayCall struct {
	kind    string
	matchID string
}

type stubGateway struct {
	mu        sync.Mutex
	calls     []gatewayCall
	results   map[string]matchresult.MatchResult
	finished  []matchresult.MatchResult
	upcoming  []match.Match
	eventErr  map[string]error
	listErr   error
	callCount int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		results:  make(map[string]matchresult.MatchResult),
		eventErr: make(map[string]error),
	}
}

func (g *stubGateway) UpcomingMatches(_ context.Context, _ []competition.Competition, _, _ time.Time) ([]match.Match, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{kind: "upcoming"})
	return g.upcoming, g.listErr
}

func (g *stubGateway) FinishedMatches(_ context.Context, _ []competition.Competition, limit int) ([]matchresult.MatchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{kind: "finished"})
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := g.finished
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *stubGateway) EventResult(_ context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{kind: "event", matchID: matchID})
	g.callCount++
	if err := g.eventErr[matchID]; err != nil {
		return matchresult.MatchResult{}, false, err
	}
	result, ok := g.results[matchID]
	return result, ok, nil
}

func (g *stubGateway) eventCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	count := 0
	for _, call := range g.calls {
		if call.kind == "event" {
			count++
		}
	}
	return count
}
