package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"wordstake/internal/model"
)

// In-memory doubles for the redis and mongo layers, enough to drive the
// services without a network.

type fakeSessionCache struct {
	mu       sync.Mutex
	byWallet map[string]*model.GameSession
	byID     map[string]string
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{
		byWallet: make(map[string]*model.GameSession),
		byID:     make(map[string]string),
	}
}

func (c *fakeSessionCache) Reserve(ctx context.Context, session *model.GameSession) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byWallet[session.WalletID]; ok {
		return false, nil
	}
	c.byWallet[session.WalletID] = session
	c.byID[session.ID] = session.WalletID
	return true, nil
}

func (c *fakeSessionCache) Save(ctx context.Context, session *model.GameSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byWallet[session.WalletID] = session
	c.byID[session.ID] = session.WalletID
	return nil
}

func (c *fakeSessionCache) GetByWallet(ctx context.Context, walletID string) (*model.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byWallet[walletID], nil
}

func (c *fakeSessionCache) GetByID(ctx context.Context, sessionID string) (*model.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	wallet, ok := c.byID[sessionID]
	if !ok {
		return nil, nil
	}
	return c.byWallet[wallet], nil
}

func (c *fakeSessionCache) Delete(ctx context.Context, session *model.GameSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byWallet, session.WalletID)
	delete(c.byID, session.ID)
	return nil
}

func (c *fakeSessionCache) All(ctx context.Context) ([]*model.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*model.GameSession
	for _, s := range c.byWallet {
		out = append(out, s)
	}
	return out, nil
}

func (c *fakeSessionCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byWallet = make(map[string]*model.GameSession)
	c.byID = make(map[string]string)
	return nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]int)}
}

func (l *fakeLeaderboard) UpdateStreak(ctx context.Context, walletID string, maxStreak int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[walletID] = maxStreak
	return nil
}

func (l *fakeLeaderboard) GetTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []model.LeaderboardEntry
	for wallet, score := range l.scores {
		entries = append(entries, model.LeaderboardEntry{WalletID: wallet, MaxStreak: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MaxStreak > entries[j].MaxStreak })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *fakeLeaderboard) GetRank(ctx context.Context, walletID string) (int64, error) {
	top, _ := l.GetTop(ctx, len(l.scores))
	for _, e := range top {
		if e.WalletID == walletID {
			return int64(e.Rank), nil
		}
	}
	return 0, nil
}

func (l *fakeLeaderboard) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores = make(map[string]int)
	return nil
}

type fakeStreakRepo struct {
	mu   sync.Mutex
	recs map[string]*model.StreakRecord
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{recs: make(map[string]*model.StreakRecord)}
}

func (r *fakeStreakRepo) Get(ctx context.Context, walletID string) (*model.StreakRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recs[walletID], nil
}

func (r *fakeStreakRepo) Save(ctx context.Context, rec *model.StreakRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.WalletID] = rec
	return nil
}

func (r *fakeStreakRepo) All(ctx context.Context) ([]*model.StreakRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.StreakRecord
	for _, rec := range r.recs {
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeStreakRepo) AllWithStreak(ctx context.Context) ([]*model.StreakRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.StreakRecord
	for _, rec := range r.recs {
		if rec.CurrentStreak > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeStreakRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = make(map[string]*model.StreakRecord)
	return nil
}

type fakeDepositRepo struct {
	mu   sync.Mutex
	deps []*model.DepositRecord
}

func newFakeDepositRepo() *fakeDepositRepo { return &fakeDepositRepo{} }

func (r *fakeDepositRepo) Create(ctx context.Context, dep *model.DepositRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps = append(r.deps, dep)
	return nil
}

func (r *fakeDepositRepo) Get(ctx context.Context, walletID, period string) (*model.DepositRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deps {
		if d.WalletID == walletID && d.Period == period {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDepositRepo) Has(ctx context.Context, walletID, period string) (bool, error) {
	dep, _ := r.Get(ctx, walletID, period)
	return dep != nil, nil
}

func (r *fakeDepositRepo) Convert(ctx context.Context, walletID, fromPeriod, toPeriod string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deps {
		if d.WalletID == walletID && d.Period == fromPeriod {
			d.Period = toPeriod
			d.IsGracePeriod = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDepositRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps = nil
	return nil
}

type fakeCompletionRepo struct {
	mu          sync.Mutex
	completions []*model.Completion
}

func newFakeCompletionRepo() *fakeCompletionRepo { return &fakeCompletionRepo{} }

func (r *fakeCompletionRepo) Create(ctx context.Context, c *model.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, c)
	return nil
}

func (r *fakeCompletionRepo) HasPlayed(ctx context.Context, walletID, period string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if c.WalletID == walletID && c.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompletionRepo) WonInPeriod(ctx context.Context, walletID, period string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if c.WalletID == walletID && c.Period == period && c.Status == model.SessionWon {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompletionRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = nil
	return nil
}

type fakeWordRepo struct {
	mu          sync.Mutex
	nextID      int
	assignments []*model.WordAssignment
	answers     []string
}

func newFakeWordRepo(answers ...string) *fakeWordRepo {
	return &fakeWordRepo{answers: answers}
}

func (r *fakeWordRepo) Queue(ctx context.Context, a *model.WordAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = "wa_" + strconv.Itoa(r.nextID)
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	r.assignments = append(r.assignments, a)
	return nil
}

func (r *fakeWordRepo) NextUnused(ctx context.Context, walletID string) (*model.WordAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.WalletID == walletID && !a.Used {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeWordRepo) HasUnused(ctx context.Context, walletID string) (bool, error) {
	a, _ := r.NextUnused(ctx, walletID)
	return a != nil, nil
}

func (r *fakeWordRepo) MarkUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.ID == id {
			a.Used = true
			return nil
		}
	}
	return errors.New("assignment not found")
}

func (r *fakeWordRepo) ClearAssignments(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = nil
	return nil
}

func (r *fakeWordRepo) AddAnswer(ctx context.Context, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, word)
	return nil
}

func (r *fakeWordRepo) RandomAnswer(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.answers) == 0 {
		return "", errors.New("answer pool is empty")
	}
	return r.answers[0], nil
}

// fakeBroadcaster records every event so tests can assert on what went out.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	walletID string
	msgType  string
	data     interface{}
}

func (b *fakeBroadcaster) BroadcastToWallet(walletID string, msgType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{walletID: walletID, msgType: msgType, data: data})
}

func (b *fakeBroadcaster) BroadcastToAll(msgType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{msgType: msgType, data: data})
}

func (b *fakeBroadcaster) count(msgType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.msgType == msgType {
			n++
		}
	}
	return n
}

type fakePause struct{ paused bool }

func (p *fakePause) IsPaused() bool { return p.paused }
