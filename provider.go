package walacor

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/walacor/walacor-go/client/httpclient"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/file"
	"github.com/walacor/walacor-go/metrics"
	"github.com/walacor/walacor-go/relays"
)

type options struct {
	clientCfg httpclient.HTTPClientConfig
	registry  prometheus.Registerer
	archive   file.ObjectStore
	verbose   bool
}

type Option func(*options)

// WithHTTPClientConfig replaces the transport settings, for example to plug
// in an oauth2 token source or a custom AuthProvider.
func WithHTTPClientConfig(cfg httpclient.HTTPClientConfig) Option {
	return func(o *options) { o.clientCfg = cfg }
}

// WithMiddleware appends transport middlewares.
func WithMiddleware(m ...httpclient.Middleware) Option {
	return func(o *options) { o.clientCfg.WithMiddleware(m...) }
}

// WithMetrics registers request and login collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// WithArchive enables the S3 bridge of the file service.
func WithArchive(store file.ObjectStore) Option {
	return func(o *options) { o.archive = store }
}

// WithRequestLogging logs every request at debug level.
func WithRequestLogging() Option {
	return func(o *options) { o.verbose = true }
}

// New validates cfg and sets up the transport. No network call is made, the
// first request logs in.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{clientCfg: httpclient.DefaultHTTPClientConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	own := cfg.Clone()
	s := &Service{
		cfg:   own,
		relay: own.Relay(),
	}
	if o.verbose {
		o.clientCfg.WithMiddleware(httpclient.LoggingMiddleware(s.relay))
	}
	if o.registry != nil {
		collector, err := metrics.NewCollector(o.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		o.clientCfg.WithObserver(collector)
	}
	s.opts = o

	s.mu.Lock()
	s.buildLocked()
	s.mu.Unlock()
	return s, nil
}

// buildLocked replaces the transport and drops every cached service.
func (s *Service) buildLocked() {
	clientCfg := s.opts.clientCfg
	s.client = httpclient.NewHTTPClient(s.cfg, &clientCfg)
	s.auth = nil
	s.schema = nil
	s.data = nil
	s.files = nil
	s.relay.Debug(relays.RlyLog{Msg: "walacor service configured for " + s.cfg.BaseURL})
}
