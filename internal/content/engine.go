package content

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos"
)

// EngineConfig holds per-class acquisition policy.
type EngineConfig struct {
	Class types.ContentClass

	// Per-consumer issuance budget over a trailing window.
	DailyLimit int
	RateWindow time.Duration

	// Trailing window within which re-issuing the same text to the same
	// consumer is disfavored, and the retry cap before a duplicate is
	// accepted anyway.
	AvoidanceWindow time.Duration
	MaxAttempts     int

	// How long a just-issued record keeps answering repeat requests from
	// the same consumer without a fresh issuance.
	CacheTTL time.Duration

	// Timeout for the synchronous personalized generation call.
	GeneratorTimeout time.Duration
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.DailyLimit <= 0 {
		c.DailyLimit = 5
	}
	if c.RateWindow <= 0 {
		c.RateWindow = 24 * time.Hour
	}
	if c.AvoidanceWindow <= 0 {
		c.AvoidanceWindow = 7 * 24 * time.Hour
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 2 * time.Minute
	}
	if c.GeneratorTimeout <= 0 {
		c.GeneratorTimeout = 30 * time.Second
	}
	return c
}

// Toucher receives a non-blocking notification after every pool take.
type Toucher interface {
	OnTouch(category types.ContentCategory)
}

// Engine is the tiered acquisition façade for one content class. The hot
// path never calls the generator: Acquire serves from the pool and falls
// back to the static corpus, so every downstream failure past the rate
// check degrades to the next tier instead of surfacing. The only
// exceptions are ErrRateLimitExceeded and a record-persist failure:
// content is never handed out without a durable record behind it.
type Engine struct {
	log        *logger.Logger
	cfg        EngineConfig
	pool       Pool
	corpus     *StaticCorpus
	classifier *Classifier
	gen        Generator
	records    repos.ContentRecordRepo
	history    repos.ConsumerHistoryRepo
	toucher    Toucher
	metrics    *observability.Metrics

	now func() time.Time

	mu     sync.Mutex
	recent map[string]recentResult
}

type recentResult struct {
	record   *types.ContentRecord
	issuedAt time.Time
}

func NewEngine(
	baseLog *logger.Logger,
	pool Pool,
	corpus *StaticCorpus,
	classifier *Classifier,
	gen Generator,
	records repos.ContentRecordRepo,
	history repos.ConsumerHistoryRepo,
	toucher Toucher,
	metrics *observability.Metrics,
	cfg EngineConfig,
) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		log:        baseLog.With("service", "Engine", "class", string(cfg.Class)),
		cfg:        cfg,
		pool:       pool,
		corpus:     corpus,
		classifier: classifier,
		gen:        gen,
		records:    records,
		history:    history,
		toucher:    toucher,
		metrics:    metrics,
		now:        time.Now,
		recent:     map[string]recentResult{},
	}
}

// Acquire issues one piece of content to consumerID. An empty category
// means "any": the engine drains class partitions in order and classifies
// the result afterwards. forceNew bypasses the recent-result cache.
func (e *Engine) Acquire(ctx context.Context, consumerID string, category types.ContentCategory, forceNew bool) (*types.ContentRecord, error) {
	if err := e.checkRate(ctx, consumerID); err != nil {
		return nil, err
	}

	if !forceNew {
		if rec, ok := e.cachedRecent(consumerID); ok {
			return rec, nil
		}
	}

	text, origin := e.selectCandidate(ctx, consumerID, category)

	resolved := category
	if resolved == "" {
		resolved = e.classifier.Classify(text)
	}

	rec, err := e.persist(ctx, consumerID, resolved, text, origin)
	if err != nil {
		return nil, err
	}

	if e.toucher != nil {
		e.toucher.OnTouch(resolved)
	}
	e.metrics.AcquireIssued(string(e.cfg.Class), string(origin))
	return rec, nil
}

// AcquirePersonalized generates one item synchronously from the consumer's
// free-text context. This is the single legitimate generator call on a
// request path; it is bounded by GeneratorTimeout and falls back to the
// static corpus on any generator failure.
func (e *Engine) AcquirePersonalized(ctx context.Context, consumerID, contextText string) (*types.ContentRecord, error) {
	if err := e.checkRate(ctx, consumerID); err != nil {
		return nil, err
	}

	category := e.classifier.Classify(contextText)

	text, origin := "", types.OriginGenerated
	if e.gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, e.cfg.GeneratorTimeout)
		items, err := e.gen.Generate(genCtx, category, 1, contextText)
		cancel()
		if err == nil && len(items) > 0 {
			text = items[0]
		} else {
			e.log.Warn("personalized generation failed, falling back", "consumer", consumerID, "error", err)
			e.metrics.GeneratorError(string(e.cfg.Class))
		}
	}
	if text == "" {
		if items := e.corpus.Sample(category, 1); len(items) > 0 {
			text, origin = items[0], types.OriginFallback
		}
	}

	rec, err := e.persist(ctx, consumerID, category, text, origin)
	if err != nil {
		return nil, err
	}

	e.metrics.AcquireIssued(string(e.cfg.Class), string(origin))
	return rec, nil
}

// RecordReuse bumps usageCount when a downstream allocation hands an
// already-issued record out again.
func (e *Engine) RecordReuse(ctx context.Context, id uuid.UUID) error {
	return e.records.IncrementUsage(ctx, nil, id)
}

// PoolStatus reports approximate occupancy per category for operators.
func (e *Engine) PoolStatus(ctx context.Context) map[types.ContentCategory]int {
	out := map[types.ContentCategory]int{}
	for _, category := range e.cfg.Class.Categories() {
		out[category] = e.pool.Size(ctx, category)
	}
	return out
}

func (e *Engine) checkRate(ctx context.Context, consumerID string) error {
	since := e.now().Add(-e.cfg.RateWindow)
	count, err := e.history.CountSince(ctx, nil, consumerID, e.cfg.Class, since)
	if err != nil {
		// Store outage must not block issuance.
		e.log.Warn("rate-limit count degraded to zero", "consumer", consumerID, "error", err)
		count = 0
	}
	if count >= int64(e.cfg.DailyLimit) {
		e.metrics.RateLimited(string(e.cfg.Class))
		return ErrRateLimitExceeded
	}
	return nil
}

// selectCandidate runs the pool/fallback tiers with the duplicate-avoidance
// retry loop. After MaxAttempts a duplicate is accepted: availability wins
// over uniqueness.
func (e *Engine) selectCandidate(ctx context.Context, consumerID string, category types.ContentCategory) (string, types.ContentOrigin) {
	since := e.now().Add(-e.cfg.AvoidanceWindow)

	var text string
	var origin types.ContentOrigin
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		text, origin = e.nextCandidate(ctx, category)

		dup, err := e.history.TextIssuedSince(ctx, nil, consumerID, e.cfg.Class, text, since)
		if err != nil {
			e.log.Warn("duplicate check degraded to no-duplicate", "consumer", consumerID, "error", err)
			dup = false
		}
		if !dup {
			break
		}
	}
	return text, origin
}

func (e *Engine) nextCandidate(ctx context.Context, category types.ContentCategory) (string, types.ContentOrigin) {
	if category != "" {
		if text, ok := e.pool.Take(ctx, category); ok {
			return text, types.OriginPool
		}
	} else {
		for _, c := range e.cfg.Class.Categories() {
			if text, ok := e.pool.Take(ctx, c); ok {
				return text, types.OriginPool
			}
		}
	}

	sampleFrom := category
	if sampleFrom == "" {
		categories := e.cfg.Class.Categories()
		sampleFrom = categories[rand.Intn(len(categories))]
	}
	items := e.corpus.Sample(sampleFrom, 1)
	if len(items) == 0 {
		return "", types.OriginFallback
	}
	return items[0], types.OriginFallback
}

func (e *Engine) persist(ctx context.Context, consumerID string, category types.ContentCategory, text string, origin types.ContentOrigin) (*types.ContentRecord, error) {
	issuedAt := e.now()
	rec := &types.ContentRecord{
		Class:     e.cfg.Class,
		Category:  category,
		Text:      text,
		Origin:    origin,
		CreatedAt: issuedAt,
	}
	created, err := e.records.Create(ctx, nil, []*types.ContentRecord{rec})
	if err != nil {
		e.log.Error("content record persist failed", "consumer", consumerID, "error", err)
		return nil, err
	}
	rec = created[0]

	entry := &types.ConsumerHistoryEntry{
		ConsumerID: consumerID,
		ContentID:  rec.ID,
		Class:      e.cfg.Class,
		Category:   category,
		IssuedAt:   issuedAt,
	}
	if err := e.history.Append(ctx, nil, []*types.ConsumerHistoryEntry{entry}); err != nil {
		// Best-effort ledger: the record already exists, so hand it out.
		e.log.Warn("history append failed", "consumer", consumerID, "error", err)
	}

	e.cacheRecent(consumerID, rec, issuedAt)
	return rec, nil
}

func (e *Engine) cachedRecent(consumerID string) (*types.ContentRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res, ok := e.recent[consumerID]
	if !ok {
		return nil, false
	}
	if e.now().Sub(res.issuedAt) > e.cfg.CacheTTL {
		delete(e.recent, consumerID)
		return nil, false
	}
	return res.record, true
}

func (e *Engine) cacheRecent(consumerID string, rec *types.ContentRecord, issuedAt time.Time) {
	e.mu.Lock()
	e.recent[consumerID] = recentResult{record: rec, issuedAt: issuedAt}
	e.mu.Unlock()
}
