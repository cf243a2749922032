package content

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

// ReconcilerConfig holds per-class reconciliation policy.
type ReconcilerConfig struct {
	Class types.ContentClass

	// Target occupancy per category. Below it a scheduled Tick tops up;
	// below CriticalFraction*Target an OnTouch triggers an async refill.
	Target           int
	CriticalFraction float64

	// Refill generation policy: per-attempt timeout and capped attempts
	// before falling back to the static corpus.
	GeneratorTimeout  time.Duration
	GeneratorAttempts int

	// Upper bound on concurrent touch-triggered refills.
	MaxConcurrentRefills int
}

func (c ReconcilerConfig) withDefaults() ReconcilerConfig {
	if c.Target <= 0 {
		c.Target = 20
	}
	if c.CriticalFraction <= 0 {
		c.CriticalFraction = 0.3
	}
	if c.GeneratorTimeout <= 0 {
		c.GeneratorTimeout = 60 * time.Second
	}
	if c.GeneratorAttempts <= 0 {
		c.GeneratorAttempts = 2
	}
	if c.MaxConcurrentRefills <= 0 {
		c.MaxConcurrentRefills = 4
	}
	return c
}

// Reconciler keeps every category of one class near target occupancy
// without blocking consumer-facing requests. Refills are single-flight per
// category; touch-triggered refills run on a bounded task pool and a refill
// that cannot get a slot is simply dropped, the next Tick catches up.
type Reconciler struct {
	log     *logger.Logger
	pool    Pool
	gen     Generator
	corpus  *StaticCorpus
	metrics *observability.Metrics
	cfg     ReconcilerConfig

	sf  singleflight.Group
	sem chan struct{}
}

func NewReconciler(baseLog *logger.Logger, pool Pool, gen Generator, corpus *StaticCorpus, metrics *observability.Metrics, cfg ReconcilerConfig) *Reconciler {
	cfg = cfg.withDefaults()
	return &Reconciler{
		log:     baseLog.With("service", "Reconciler", "class", string(cfg.Class)),
		pool:    pool,
		gen:     gen,
		corpus:  corpus,
		metrics: metrics,
		cfg:     cfg,
		sem:     make(chan struct{}, cfg.MaxConcurrentRefills),
	}
}

// OnTouch is called after every pool take. It cheaply checks occupancy and
// schedules an asynchronous refill when the category has gone critical.
func (r *Reconciler) OnTouch(category types.ContentCategory) {
	size := r.pool.Size(context.Background(), category)
	r.metrics.SetPoolOccupancy(string(r.cfg.Class), string(category), size)

	if float64(size) >= r.criticalLevel() {
		return
	}

	select {
	case r.sem <- struct{}{}:
	default:
		// Task pool saturated; the scheduled Tick will catch up.
		return
	}
	go func() {
		defer func() { <-r.sem }()
		r.refillOnce(context.Background(), category, "touch")
	}()
}

// Tick tops up every category below target. It runs synchronously on the
// scheduler's worker, never on the request path.
func (r *Reconciler) Tick(ctx context.Context) {
	for _, category := range r.cfg.Class.Categories() {
		size := r.pool.Size(ctx, category)
		r.metrics.SetPoolOccupancy(string(r.cfg.Class), string(category), size)
		if size < r.cfg.Target {
			r.refillOnce(ctx, category, "tick")
		}
	}
}

// EnsureMinimum is the startup hook: an immediate Tick so the first request
// never hits an empty pool. Failures are logged, never propagated.
func (r *Reconciler) EnsureMinimum(ctx context.Context) {
	r.log.Info("Ensuring minimum pool occupancy")
	r.Tick(ctx)
}

func (r *Reconciler) criticalLevel() float64 {
	return r.cfg.CriticalFraction * float64(r.cfg.Target)
}

func (r *Reconciler) refillOnce(ctx context.Context, category types.ContentCategory, trigger string) {
	_, _, _ = r.sf.Do(string(category), func() (any, error) {
		r.refill(ctx, category, trigger)
		return nil, nil
	})
}

func (r *Reconciler) refill(ctx context.Context, category types.ContentCategory, trigger string) {
	deficit := r.cfg.Target - r.pool.Size(ctx, category)
	if deficit <= 0 {
		return
	}

	items, err := r.generate(ctx, category, deficit)
	source := "generator"
	if err != nil {
		r.log.Warn("refill generation failed, falling back to static corpus",
			"category", string(category),
			"deficit", deficit,
			"error", err,
		)
		r.metrics.GeneratorError(string(r.cfg.Class))
		items = r.corpus.Sample(category, deficit)
		source = "corpus"
	}
	if len(items) == 0 {
		return
	}

	if err := r.pool.Insert(ctx, category, items); err != nil {
		r.log.Warn("refill insert failed", "category", string(category), "error", err)
		return
	}

	size := r.pool.Size(ctx, category)
	r.metrics.SetPoolOccupancy(string(r.cfg.Class), string(category), size)
	r.metrics.RefillCompleted(string(r.cfg.Class), trigger, source, len(items))
	r.log.Info("pool refilled",
		"category", string(category),
		"added", len(items),
		"source", source,
		"trigger", trigger,
		"occupancy", size,
	)
}

func (r *Reconciler) generate(ctx context.Context, category types.ContentCategory, deficit int) ([]string, error) {
	if r.gen == nil {
		return nil, ErrGeneratorUnavailable
	}
	var lastErr error
	for attempt := 0; attempt < r.cfg.GeneratorAttempts; attempt++ {
		genCtx, cancel := context.WithTimeout(ctx, r.cfg.GeneratorTimeout)
		items, err := r.gen.Generate(genCtx, category, deficit, "")
		cancel()
		if err == nil {
			return items, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
