package arbiter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/event"
	"github.com/viant/arbiter/service/messaging"
	"github.com/viant/arbiter/service/meta"
	"github.com/viant/arbiter/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option represents arbiter service option
type Option func(s *Service)

// WithConfig sets the configuration, DefaultConfig otherwise
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithResourceDAO sets the resource store, overriding Config.Store
func WithResourceDAO(resources dao.Service[string, resource.Resource]) Option {
	return func(s *Service) {
		s.resourceDAO = resources
	}
}

// WithQueue sets the event queue, overriding Config.Events
func WithQueue(queue messaging.Queue[event.Event]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithMetaService sets the definition loader
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithLogger sets the logger, logrus standard logger by default
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegisterer registers allocation metrics with registerer
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithTracing configures OpenTelemetry stdout tracing, written to outputFile when set.
// The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
