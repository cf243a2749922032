package app

import (
	"strings"
	"time"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/envutil"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

// ClassSettings is the per-class policy knob set. Every value has an
// environment override prefixed with the class name (QUESTION_/TODO_).
type ClassSettings struct {
	Class types.ContentClass

	PoolTTL      time.Duration
	TickInterval time.Duration

	PoolTarget       int
	CriticalFraction float64

	DailyLimit      int
	RateWindow      time.Duration
	AvoidanceWindow time.Duration
	MaxAttempts     int
	CacheTTL        time.Duration

	GeneratorTimeout     time.Duration
	RefillTimeout        time.Duration
	RefillAttempts       int
	MaxConcurrentRefills int
}

type Config struct {
	JWTSecretKey   string
	AllowedOrigins []string

	Questions ClassSettings
	Todos     ClassSettings
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		JWTSecretKey:   envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		AllowedOrigins: splitOrigins(envutil.Str("CORS_ALLOWED_ORIGINS", "")),
		Questions:      loadClassSettings("QUESTION", types.ClassQuestion, 7*24*time.Hour, 5*time.Minute),
		Todos:          loadClassSettings("TODO", types.ClassTodo, 24*time.Hour, 30*time.Minute),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	return cfg
}

func loadClassSettings(prefix string, class types.ContentClass, poolTTL, tick time.Duration) ClassSettings {
	return ClassSettings{
		Class: class,

		PoolTTL:      envutil.Duration(prefix+"_POOL_TTL", poolTTL),
		TickInterval: envutil.Duration(prefix+"_TICK_INTERVAL", tick),

		PoolTarget:       envutil.Int(prefix+"_POOL_TARGET", 20),
		CriticalFraction: envutil.Float(prefix+"_CRITICAL_FRACTION", 0.3),

		DailyLimit:      envutil.Int(prefix+"_DAILY_LIMIT", 5),
		RateWindow:      envutil.Duration(prefix+"_RATE_WINDOW", 24*time.Hour),
		AvoidanceWindow: envutil.Duration(prefix+"_AVOIDANCE_WINDOW", 7*24*time.Hour),
		MaxAttempts:     envutil.Int(prefix+"_MAX_ATTEMPTS", 5),
		CacheTTL:        envutil.Duration(prefix+"_CACHE_TTL", 2*time.Minute),

		GeneratorTimeout:     envutil.Duration(prefix+"_GENERATOR_TIMEOUT", 30*time.Second),
		RefillTimeout:        envutil.Duration(prefix+"_REFILL_TIMEOUT", 60*time.Second),
		RefillAttempts:       envutil.Int(prefix+"_REFILL_ATTEMPTS", 2),
		MaxConcurrentRefills: envutil.Int(prefix+"_MAX_CONCURRENT_REFILLS", 4),
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
