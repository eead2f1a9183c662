package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wordstake/internal/config"
	"wordstake/internal/game"
	"wordstake/internal/model"
)

// sessionFixture wires a SessionService to in-memory fakes.
type sessionFixture struct {
	svc         *SessionService
	sessions    *fakeSessionCache
	words       *fakeWordRepo
	deposits    *fakeDepositRepo
	completions *fakeCompletionRepo
	streaks     *fakeStreakRepo
	pause       *fakePause
	broadcaster *fakeBroadcaster
	clock       *game.Clock
}

func newSessionFixture(throttle time.Duration) *sessionFixture {
	f := &sessionFixture{
		sessions:    newFakeSessionCache(),
		words:       newFakeWordRepo("crane"),
		deposits:    newFakeDepositRepo(),
		completions: newFakeCompletionRepo(),
		streaks:     newFakeStreakRepo(),
		pause:       &fakePause{},
		broadcaster: &fakeBroadcaster{},
		clock:       &game.Clock{Width: time.Hour, Grace: 10 * time.Second},
	}
	streakSvc := NewStreakService(f.streaks, newFakeLeaderboard())
	cfg := &config.Config{
		GuessThrottle:  throttle,
		SessionExpiry:  30 * time.Minute,
		DefaultGuesses: 6,
	}
	f.svc = NewSessionService(f.sessions, f.words, f.deposits, f.completions, streakSvc, f.clock, f.pause, cfg)
	f.svc.SetBroadcaster(f.broadcaster)
	return f
}

// deposit credits the wallet for the current period so Create succeeds.
func (f *sessionFixture) deposit(t *testing.T, walletID string) {
	t.Helper()
	err := f.deposits.Create(context.Background(), &model.DepositRecord{
		WalletID: walletID,
		Period:   f.clock.Current().String(),
		Amount:   1,
	})
	if err != nil {
		t.Fatalf("seed deposit: %v", err)
	}
}

func TestCreateRequiresDeposit(t *testing.T) {
	f := newSessionFixture(0)
	_, err := f.svc.Create(context.Background(), "wallet-a", 6)
	if !errors.Is(err, game.ErrDepositRequired) {
		t.Errorf("err = %v, want ErrDepositRequired", err)
	}
}

func TestCreateOnePerWallet(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.Status != model.SessionActive {
		t.Errorf("status = %s, want active", session.Status)
	}
	if session.MaxGuesses != 6 {
		t.Errorf("maxGuesses = %d, want 6", session.MaxGuesses)
	}

	if _, err := f.svc.Create(ctx, "wallet-a", 6); !errors.Is(err, game.ErrSessionConflict) {
		t.Errorf("second create: err = %v, want ErrSessionConflict", err)
	}
}

func TestCreateClampsGuessBudget(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()

	cases := []struct {
		requested, want int
	}{
		{0, 6}, // default
		{1, 3},
		{3, 3},
		{10, 6},
	}
	for i, tc := range cases {
		wallet := "wallet-" + string(rune('a'+i))
		f.deposit(t, wallet)
		session, err := f.svc.Create(ctx, wallet, tc.requested)
		if err != nil {
			t.Fatalf("Create(%d): %v", tc.requested, err)
		}
		if session.MaxGuesses != tc.want {
			t.Errorf("Create(%d): maxGuesses = %d, want %d", tc.requested, session.MaxGuesses, tc.want)
		}
	}
}

func TestPauseGatesMutations(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.pause.paused = true

	if _, err := f.svc.Create(ctx, "wallet-b", 6); !errors.Is(err, game.ErrPaused) {
		t.Errorf("create while paused: err = %v, want ErrPaused", err)
	}
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "slate"); !errors.Is(err, game.ErrPaused) {
		t.Errorf("guess while paused: err = %v, want ErrPaused", err)
	}
	if len(session.Guesses) != 0 {
		t.Error("paused guess mutated the session")
	}

	// Abandon is cleanup, not a game action, so the pause gate lets it
	// through.
	session, err = f.svc.Abandon(ctx, session.ID, "wallet-a")
	if err != nil {
		t.Fatalf("abandon while paused: %v", err)
	}
	if session.Status != model.SessionAbandoned {
		t.Errorf("status = %s, want abandoned", session.Status)
	}
}

func TestGuessWinPath(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.Answer != "crane" {
		t.Fatalf("answer = %q, want pool word crane", session.Answer)
	}

	session, err = f.svc.Guess(ctx, session.ID, "wallet-a", "slate")
	if err != nil {
		t.Fatalf("first guess: %v", err)
	}
	if session.Status != model.SessionActive {
		t.Errorf("after miss: status = %s, want active", session.Status)
	}

	session, err = f.svc.Guess(ctx, session.ID, "wallet-a", "CRANE ")
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if session.Status != model.SessionWon {
		t.Errorf("status = %s, want won", session.Status)
	}
	if session.CompletedAt == nil {
		t.Error("CompletedAt not set on win")
	}

	rec, _ := f.streaks.Get(ctx, "wallet-a")
	if rec == nil || rec.CurrentStreak != 1 {
		t.Errorf("streak after win = %+v, want current 1", rec)
	}

	won, _ := f.completions.WonInPeriod(ctx, "wallet-a", session.Period)
	if !won {
		t.Error("completion not recorded as won")
	}

	// The terminal session stays visible until the sweep clears it.
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "slate"); !errors.Is(err, game.ErrSessionComplete) {
		t.Errorf("guess after win: err = %v, want ErrSessionComplete", err)
	}

	if f.broadcaster.count("session_complete") != 1 {
		t.Error("expected one session_complete broadcast")
	}
}

func TestGuessLossExhaustsBudget(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		session, err = f.svc.Guess(ctx, session.ID, "wallet-a", "slate")
		if err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
	}
	if session.Status != model.SessionLost {
		t.Errorf("status = %s, want lost", session.Status)
	}

	rec, _ := f.streaks.Get(ctx, "wallet-a")
	if rec == nil || rec.CurrentStreak != 0 {
		t.Errorf("streak after loss = %+v, want current 0", rec)
	}
}

func TestGuessConsumesAssignmentFirst(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	assignment := &model.WordAssignment{WalletID: "wallet-a", Word: "lodge", AssignedBy: "adm_test"}
	if err := f.words.Queue(ctx, assignment); err != nil {
		t.Fatalf("queue assignment: %v", err)
	}

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.Answer != "lodge" {
		t.Errorf("answer = %q, want assigned word lodge", session.Answer)
	}

	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "lodge"); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if !assignment.Used {
		t.Error("assignment not marked used after completion")
	}
}

func TestGuessRejectsWrongWallet(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-b", "slate"); !errors.Is(err, game.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Guess(ctx, "g_missing", "wallet-a", "slate"); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("unknown session: err = %v, want ErrNotFound", err)
	}
}

func TestGuessThrottled(t *testing.T) {
	f := newSessionFixture(500 * time.Millisecond)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The first guess is never throttled.
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "slate"); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "pride"); !errors.Is(err, game.ErrRateLimited) {
		t.Errorf("rapid second guess: err = %v, want ErrRateLimited", err)
	}
}

func TestGuessExpiredSession(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()

	stale := &model.GameSession{
		ID:         "g_stale",
		WalletID:   "wallet-a",
		Answer:     "crane",
		Guesses:    []model.Guess{},
		MaxGuesses: 6,
		Status:     model.SessionActive,
		Period:     f.clock.Current().String(),
		StartedAt:  time.Now().Add(-31 * time.Minute),
	}
	if _, err := f.sessions.Reserve(ctx, stale); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := f.svc.Guess(ctx, "g_stale", "wallet-a", "slate"); !errors.Is(err, game.ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}

func TestGuessInvalidWord(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, bad := range []string{"", "abcd", "abcdef", "abc1e"} {
		if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", bad); !errors.Is(err, game.ErrInvalidWord) {
			t.Errorf("Guess(%q): err = %v, want ErrInvalidWord", bad, err)
		}
	}

	// Rejected words consume no budget.
	active, _ := f.svc.Active(ctx, "wallet-a")
	if len(active.Guesses) != 0 {
		t.Errorf("guesses recorded = %d, want 0", len(active.Guesses))
	}
}

func TestAbandonResetsStreak(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	// An earlier winning period gives the wallet a live streak.
	prior := f.clock.Previous()
	streakSvc := NewStreakService(f.streaks, newFakeLeaderboard())
	if _, err := streakSvc.Record(ctx, "wallet-a", game.OutcomeWin, prior); err != nil {
		t.Fatalf("seed streak: %v", err)
	}

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	session, err = f.svc.Abandon(ctx, session.ID, "wallet-a")
	if err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if session.Status != model.SessionAbandoned {
		t.Errorf("status = %s, want abandoned", session.Status)
	}

	rec, _ := f.streaks.Get(ctx, "wallet-a")
	if rec.CurrentStreak != 0 {
		t.Errorf("streak after abandon = %d, want 0", rec.CurrentStreak)
	}
	if rec.MaxStreak != 1 {
		t.Errorf("max streak = %d, want 1 preserved", rec.MaxStreak)
	}

	// Abandon is idempotent on a terminal session.
	again, err := f.svc.Abandon(ctx, session.ID, "wallet-a")
	if err != nil {
		t.Fatalf("second Abandon: %v", err)
	}
	if again.Status != model.SessionAbandoned {
		t.Errorf("second abandon status = %s", again.Status)
	}
	if played, _ := f.completions.HasPlayed(ctx, "wallet-a", session.Period); !played {
		t.Error("completion missing after abandon")
	}
}

func TestCreateAfterCompletionSamePeriod(t *testing.T) {
	f := newSessionFixture(0)
	ctx := context.Background()
	f.deposit(t, "wallet-a")

	session, err := f.svc.Create(ctx, "wallet-a", 6)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Guess(ctx, session.ID, "wallet-a", "crane"); err != nil {
		t.Fatalf("winning guess: %v", err)
	}

	// Simulate the sweep clearing the session map; the durable completion
	// still blocks a second game this period.
	if err := f.sessions.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := f.svc.Create(ctx, "wallet-a", 6); !errors.Is(err, game.ErrAlreadyPlayed) {
		t.Errorf("err = %v, want ErrAlreadyPlayed", err)
	}
}
