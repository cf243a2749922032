package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos/testutil"
)

type stubGenerator struct {
	err   error
	items []string
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ types.ContentCategory, count int, _ string) ([]string, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if len(g.items) > 0 {
		return g.items, nil
	}
	out := make([]string, count)
	for i := range out {
		out[i] = fmt.Sprintf("What is generated thought number %d today?", i)
	}
	return out, nil
}

// stuckPool always hands out the same text, for exercising the
// duplicate-avoidance retry loop.
type stuckPool struct {
	text  string
	takes int
}

func (p *stuckPool) Insert(context.Context, types.ContentCategory, []string) error { return nil }
func (p *stuckPool) Take(context.Context, types.ContentCategory) (string, bool) {
	p.takes++
	return p.text, true
}
func (p *stuckPool) Size(context.Context, types.ContentCategory) int { return 1 }

type engineFixture struct {
	engine  *Engine
	pool    Pool
	records repos.ContentRecordRepo
	history repos.ConsumerHistoryRepo
	clock   *time.Time
}

func newEngineFixture(t *testing.T, pool Pool, gen Generator) *engineFixture {
	t.Helper()

	log := testutil.Logger(t)
	db := testutil.DB(t)
	recordRepo := repos.NewContentRecordRepo(db, log)
	historyRepo := repos.NewConsumerHistoryRepo(db, log)

	engine := NewEngine(
		log,
		pool,
		NewStaticCorpus(),
		NewClassifier(types.ClassQuestion),
		gen,
		recordRepo,
		historyRepo,
		nil,
		observability.NewMetrics(),
		EngineConfig{Class: types.ClassQuestion},
	)

	start := time.Now()
	engine.now = func() time.Time { return start }
	return &engineFixture{
		engine:  engine,
		pool:    pool,
		records: recordRepo,
		history: historyRepo,
		clock:   &start,
	}
}

func (f *engineFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
	at := *f.clock
	f.engine.now = func() time.Time { return at }
}

func newConsumer() string { return "consumer-" + uuid.New().String() }

func TestEngineNeverEmpty(t *testing.T) {
	fix := newEngineFixture(t, NewMemoryPool(), &stubGenerator{err: errors.New("provider down")})
	consumer := newConsumer()

	rec, err := fix.engine.Acquire(context.Background(), consumer, types.CategoryDaily, true)
	if err != nil {
		t.Fatalf("acquire with empty pool and dead generator: %v", err)
	}
	if rec.Origin != types.OriginFallback {
		t.Fatalf("origin: got=%s want=%s", rec.Origin, types.OriginFallback)
	}
	if rec.Text == "" {
		t.Fatalf("empty text issued")
	}

	stored, err := fix.records.GetByIDs(context.Background(), nil, []uuid.UUID{rec.ID})
	if err != nil || len(stored) != 1 {
		t.Fatalf("issued content must be persisted first: records=%v err=%v", stored, err)
	}
	if stored[0].Text != rec.Text {
		t.Fatalf("persisted text mismatch: got=%q want=%q", stored[0].Text, rec.Text)
	}
}

func TestEngineRateLimit(t *testing.T) {
	fix := newEngineFixture(t, NewMemoryPool(), nil)
	consumer := newConsumer()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, true); err != nil {
			t.Fatalf("acquire %d: %v", i+1, err)
		}
	}

	if _, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, true); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("sixth acquire: got err=%v, want ErrRateLimitExceeded", err)
	}

	fix.advance(24*time.Hour + time.Minute)
	if _, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, true); err != nil {
		t.Fatalf("acquire after window elapsed: %v", err)
	}
}

func TestEngineAcceptsDuplicateAfterRetries(t *testing.T) {
	const text = "What moment from this year would you relive?"
	pool := &stuckPool{text: text}
	fix := newEngineFixture(t, pool, nil)
	consumer := newConsumer()
	ctx := context.Background()

	first, err := fix.engine.Acquire(ctx, consumer, types.CategoryGeneral, true)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if first.Text != text {
		t.Fatalf("first text: got=%q want=%q", first.Text, text)
	}

	takesBefore := pool.takes
	second, err := fix.engine.Acquire(ctx, consumer, types.CategoryGeneral, true)
	if err != nil {
		t.Fatalf("duplicate-only source must still produce a result: %v", err)
	}
	if second.Text != text {
		t.Fatalf("second text: got=%q want=%q", second.Text, text)
	}
	if got := pool.takes - takesBefore; got != 5 {
		t.Fatalf("retry attempts before accepting duplicate: got=%d want=5", got)
	}
}

func TestEngineEndToEndDaily(t *testing.T) {
	pool := NewMemoryPool()
	fix := newEngineFixture(t, pool, nil)
	consumer := newConsumer()
	ctx := context.Background()

	preloaded := []string{"A?", "B?", "C?"}
	if err := pool.Insert(ctx, types.CategoryDaily, preloaded); err != nil {
		t.Fatalf("preload: %v", err)
	}

	issued := map[string]bool{}
	for i := 0; i < 3; i++ {
		rec, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, true)
		if err != nil {
			t.Fatalf("acquire %d: %v", i+1, err)
		}
		if rec.Origin != types.OriginPool {
			t.Fatalf("acquire %d origin: got=%s want=%s", i+1, rec.Origin, types.OriginPool)
		}
		if issued[rec.Text] {
			t.Fatalf("text %q issued twice", rec.Text)
		}
		issued[rec.Text] = true
	}
	for _, want := range preloaded {
		if !issued[want] {
			t.Fatalf("preloaded entry %q never issued", want)
		}
	}

	fourth, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, true)
	if err != nil {
		t.Fatalf("fourth acquire: %v", err)
	}
	if fourth.Origin != types.OriginFallback {
		t.Fatalf("fourth origin: got=%s want=%s", fourth.Origin, types.OriginFallback)
	}
	if issued[fourth.Text] {
		t.Fatalf("fallback repeated a pool entry: %q", fourth.Text)
	}
	if fourth.Category != types.CategoryDaily {
		t.Fatalf("fourth category: got=%s want=%s", fourth.Category, types.CategoryDaily)
	}
}

func TestEngineServesCachedRecentResult(t *testing.T) {
	fix := newEngineFixture(t, NewMemoryPool(), nil)
	consumer := newConsumer()
	ctx := context.Background()

	first, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, false)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	second, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, false)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected cached record %s, got %s", first.ID, second.ID)
	}

	count, err := fix.history.CountSince(ctx, nil, consumer, types.ClassQuestion, fix.engine.now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("cached repeat must not burn an issuance: count=%d", count)
	}

	fix.advance(5 * time.Minute)
	third, err := fix.engine.Acquire(ctx, consumer, types.CategoryDaily, false)
	if err != nil {
		t.Fatalf("third acquire: %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("cache must expire after its TTL")
	}
}

func TestEngineClassifiesUnlabeledContent(t *testing.T) {
	pool := NewMemoryPool()
	fix := newEngineFixture(t, pool, nil)
	ctx := context.Background()

	if err := pool.Insert(ctx, types.CategoryMemory, []string{"Do you remember the lake house?"}); err != nil {
		t.Fatalf("preload: %v", err)
	}

	rec, err := fix.engine.Acquire(ctx, newConsumer(), "", true)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if rec.Origin != types.OriginPool {
		t.Fatalf("origin: got=%s want=%s", rec.Origin, types.OriginPool)
	}
	if rec.Category != types.CategoryMemory {
		t.Fatalf("classified category: got=%s want=%s", rec.Category, types.CategoryMemory)
	}
}

func TestEnginePersonalizedGeneratesSynchronously(t *testing.T) {
	gen := &stubGenerator{items: []string{"What made the mountain trip feel special to you?"}}
	fix := newEngineFixture(t, NewMemoryPool(), gen)

	rec, err := fix.engine.AcquirePersonalized(context.Background(), newConsumer(), "We are so grateful for our trip")
	if err != nil {
		t.Fatalf("personalized acquire: %v", err)
	}
	if rec.Origin != types.OriginGenerated {
		t.Fatalf("origin: got=%s want=%s", rec.Origin, types.OriginGenerated)
	}
	if rec.Text != gen.items[0] {
		t.Fatalf("text: got=%q want=%q", rec.Text, gen.items[0])
	}
	if rec.Category != types.CategoryGratitude {
		t.Fatalf("category from context: got=%s want=%s", rec.Category, types.CategoryGratitude)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls: got=%d want=1", gen.calls)
	}
}

func TestEnginePersonalizedFallsBackWhenGeneratorFails(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	fix := newEngineFixture(t, NewMemoryPool(), gen)

	rec, err := fix.engine.AcquirePersonalized(context.Background(), newConsumer(), "We are thankful for grandma's visit")
	if err != nil {
		t.Fatalf("personalized acquire: %v", err)
	}
	if rec.Origin != types.OriginFallback {
		t.Fatalf("origin: got=%s want=%s", rec.Origin, types.OriginFallback)
	}
	if rec.Category != types.CategoryGratitude {
		t.Fatalf("category: got=%s want=%s", rec.Category, types.CategoryGratitude)
	}
	if rec.Text == "" {
		t.Fatalf("fallback must produce content")
	}
}
