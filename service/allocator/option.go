package allocator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/dao"
	"github.com/viant/arbiter/service/event"
)

// Option represents allocator option
type Option func(s *Service)

// WithDAO persists every changed resource inside the transition
func WithDAO(resources dao.Service[string, resource.Resource]) Option {
	return func(s *Service) {
		s.dao = resources
	}
}

// WithPublisher publishes an event per transition
func WithPublisher(publisher *event.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger sets logger, logrus standard logger by default
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegisterer registers allocation counters
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}
