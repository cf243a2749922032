package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/kinfolkhq/kinfolk-backend/internal/clients/redis"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/openai"
)

type Clients struct {
	// Redis is nil when unconfigured or unreachable; pools then run
	// in-memory and content does not survive a restart.
	Redis *goredis.Client

	// OpenAI is nil when no API key is configured; every acquisition then
	// serves pool or corpus content.
	OpenAI openai.Client
}

func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var clients Clients

	rdb, err := redis.NewClient(log)
	if err != nil {
		log.Warn("Redis unavailable, pools fall back to in-memory", "error", err)
	} else {
		clients.Redis = rdb
	}

	ai, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI unavailable, generation disabled", "error", err)
	} else {
		clients.OpenAI = ai
	}

	return clients
}
