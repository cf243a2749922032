package app

import (
	httpH "github.com/kinfolkhq/kinfolk-backend/internal/http/handlers"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

type Handlers struct {
	Content *httpH.ContentHandler
	Health  *httpH.HealthHandler
	Metrics *httpH.MetricsHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Content: httpH.NewContentHandler(services.QuestionEngine, services.TodoEngine),
		Health:  httpH.NewHealthHandler(),
		Metrics: httpH.NewMetricsHandler(services.Metrics),
	}
}
