package app

import (
	"github.com/kinfolkhq/kinfolk-backend/internal/content"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
	"github.com/kinfolkhq/kinfolk-backend/internal/scheduler"
)

type Services struct {
	Metrics *observability.Metrics

	QuestionEngine *content.Engine
	TodoEngine     *content.Engine

	QuestionReconciler *content.Reconciler
	TodoReconciler     *content.Reconciler

	Scheduler *scheduler.Scheduler
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	metrics := observability.NewMetrics()
	corpus := content.NewStaticCorpus()

	questionEngine, questionReconciler := wireClassStack(log, cfg.Questions, clients, reposet, corpus, metrics)
	todoEngine, todoReconciler := wireClassStack(log, cfg.Todos, clients, reposet, corpus, metrics)

	sched := scheduler.New(log)
	jobs := []scheduler.Job{
		{Name: "question-pool-reconcile", Interval: cfg.Questions.TickInterval, Run: questionReconciler.Tick},
		{Name: "todo-pool-reconcile", Interval: cfg.Todos.TickInterval, Run: todoReconciler.Tick},
	}
	for _, job := range jobs {
		if err := sched.Register(job); err != nil {
			return Services{}, err
		}
	}

	return Services{
		Metrics:            metrics,
		QuestionEngine:     questionEngine,
		TodoEngine:         todoEngine,
		QuestionReconciler: questionReconciler,
		TodoReconciler:     todoReconciler,
		Scheduler:          sched,
	}, nil
}

func wireClassStack(
	log *logger.Logger,
	settings ClassSettings,
	clients Clients,
	reposet Repos,
	corpus *content.StaticCorpus,
	metrics *observability.Metrics,
) (*content.Engine, *content.Reconciler) {
	var pool content.Pool
	if clients.Redis != nil {
		pool = content.NewRedisPool(log, clients.Redis, settings.Class, settings.PoolTTL)
	} else {
		pool = content.NewMemoryPool()
	}

	var gen content.Generator
	if clients.OpenAI != nil {
		gen = content.NewOpenAIGenerator(log, clients.OpenAI, settings.Class)
	}

	classifier := content.NewClassifier(settings.Class)

	reconciler := content.NewReconciler(log, pool, gen, corpus, metrics, content.ReconcilerConfig{
		Class:                settings.Class,
		Target:               settings.PoolTarget,
		CriticalFraction:     settings.CriticalFraction,
		GeneratorTimeout:     settings.RefillTimeout,
		GeneratorAttempts:    settings.RefillAttempts,
		MaxConcurrentRefills: settings.MaxConcurrentRefills,
	})

	engine := content.NewEngine(
		log,
		pool,
		corpus,
		classifier,
		gen,
		reposet.ContentRecord,
		reposet.ConsumerHistory,
		reconciler,
		metrics,
		content.EngineConfig{
			Class:            settings.Class,
			DailyLimit:       settings.DailyLimit,
			RateWindow:       settings.RateWindow,
			AvoidanceWindow:  settings.AvoidanceWindow,
			MaxAttempts:      settings.MaxAttempts,
			CacheTTL:         settings.CacheTTL,
			GeneratorTimeout: settings.GeneratorTimeout,
		},
	)

	return engine, reconciler
}
