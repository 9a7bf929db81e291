package session

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"bapi-mapper/config"
	"bapi-mapper/conversion"
	"bapi-mapper/execution"
	"bapi-mapper/mapper"
	"bapi-mapper/model"
)

// Configuration builds a SessionFactory.
type Configuration struct {
	cfg          config.SessionFactory
	logger       *zap.Logger
	converters   *conversion.Registry
	context      execution.Context
	types        []reflect.Type
	interceptors []ExecutionInterceptor
}

// Option configures a Configuration.
type Option func(*Configuration)

// WithLogger sets the logger of the configuration and everything it builds.
func WithLogger(l *zap.Logger) Option {
	return func(c *Configuration) {
		c.logger = l
	}
}

// WithConverters sets the converter registry used to map types.
func WithConverters(r *conversion.Registry) Option {
	return func(c *Configuration) {
		c.converters = r
	}
}

// WithContext uses ctx instead of creating the context named in the
// definition. ctx is still configured with the definition's properties.
func WithContext(ctx execution.Context) Option {
	return func(c *Configuration) {
		c.context = ctx
	}
}

// New creates a configuration for the session factory definition cfg.
func New(cfg config.SessionFactory, opts ...Option) *Configuration {
	c := &Configuration{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	if c.converters == nil {
		c.converters = conversion.DefaultRegistry()
	}

	return c
}

// AddAnnotatedType registers the type of v, a BAPI struct or pointer to one.
func (c *Configuration) AddAnnotatedType(v any) *Configuration {
	c.types = append(c.types, reflect.TypeOf(v))
	return c
}

// AddInterceptor appends an interceptor. Interceptors run in the order they
// were added, after the validation interceptor.
func (c *Configuration) AddInterceptor(i ExecutionInterceptor) *Configuration {
	c.interceptors = append(c.interceptors, i)
	return c
}

// BuildSessionFactory validates the definition, configures the execution
// context and maps every registered type. All mapping errors are reported
// together.
func (c *Configuration) BuildSessionFactory() (*SessionFactory, error) {
	cfg := c.cfg
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("session_factory", cfg.Name))

	ctx := c.context
	if ctx == nil {
		var err error
		if ctx, err = execution.NewContext(cfg.Context); err != nil {
			return nil, fmt.Errorf("session factory %q: %w", cfg.Name, err)
		}
	}

	if err := ctx.Configure(execution.Properties(cfg.Properties)); err != nil {
		return nil, fmt.Errorf("session factory %q: configure %s context: %w", cfg.Name, cfg.Context, err)
	}

	cache := mapper.NewCache(mapper.New(mapper.WithConverters(c.converters), mapper.WithLogger(logger)))
	mappings := make(map[reflect.Type]*model.FunctionMapping, len(c.types))

	var errs []error

	for _, t := range c.types {
		fm, err := cache.MapFunction(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		mappings[fm.AssociatedType()] = fm
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("session factory %q: %w", cfg.Name, errors.Join(errs...))
	}

	var interceptors []ExecutionInterceptor
	if cfg.ValidationMode != config.ValidationNone {
		interceptors = append(interceptors, NewValidationInterceptor())
	}

	interceptors = append(interceptors, c.interceptors...)

	logger.Info("session factory built",
		zap.String("context", cfg.Context),
		zap.String("validation_mode", cfg.ValidationMode),
		zap.Int("mappings", len(mappings)),
		zap.Int("interceptors", len(interceptors)),
	)

	return &SessionFactory{
		name:         cfg.Name,
		context:      ctx,
		mappings:     mappings,
		interceptors: interceptors,
		binder:       execution.NewBinder(logger),
		logger:       logger,
	}, nil
}
