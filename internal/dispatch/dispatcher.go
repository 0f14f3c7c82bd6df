// Package dispatch implements the tool call pipeline: a fixed catalog of
// multiplexed tools, two-phase request validation, routing to domain
// services, and a uniform response envelope. Errors never escape as Go
// errors; every call returns a Response.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck/internal/services"
)

// HealthChecker gates dispatch on backing-store health. Calls fail fast
// while the store is down instead of timing out one by one.
type HealthChecker interface {
	Healthy() bool
}

// Dispatcher owns the catalog and routing table and executes tool calls.
// Construct with New; the zero value is not usable.
type Dispatcher struct {
	catalog *Catalog
	routes  map[string]map[string]Handler
	svc     services.Registry
	health  HealthChecker
	timeout time.Duration
	log     *slog.Logger
	metrics *Metrics
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds each call end to end. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.timeout = d }
}

// WithLogger replaces the default discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(disp *Dispatcher) { disp.log = log }
}

// WithMetrics attaches call counters and latency histograms.
func WithMetrics(m *Metrics) Option {
	return func(disp *Dispatcher) { disp.metrics = m }
}

// New builds a Dispatcher over the given services. A nil health checker
// means the store is always considered available.
func New(svc services.Registry, health HealthChecker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog: NewCatalog(),
		routes:  newRoutes(),
		svc:     svc,
		health:  health,
		timeout: 30 * time.Second,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tools lists every tool definition in declaration order.
func (d *Dispatcher) Tools() []ToolDefinition {
	return d.catalog.List()
}

// Dispatch runs one tool call through the full pipeline and always returns
// an envelope. The health gate runs before validation so a downed store
// answers immediately, and the per-call deadline covers the handler only.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]any) Response {
	start := time.Now()
	resp := d.dispatch(ctx, tool, args)
	d.metrics.observe(tool, resp.Status, time.Since(start))

	if resp.Status == StatusError {
		switch resp.ErrorKind {
		case KindConnectionUnavailable, KindUnexpected:
			d.log.Error("tool call failed", "tool", tool, "kind", string(resp.ErrorKind), "err", resp.ErrorMessage)
		default:
			d.log.Debug("tool call rejected", "tool", tool, "kind", string(resp.ErrorKind), "err", resp.ErrorMessage)
		}
	}
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, tool string, args map[string]any) Response {
	def, ok := d.catalog.Get(tool)
	if !ok {
		return Failure(errUnknownTool(tool))
	}

	if d.health != nil && !d.health.Healthy() {
		return Failure(errConnectionUnavailable())
	}

	if args == nil {
		args = map[string]any{}
	}
	action, verr := validateCall(def, args)
	if verr != nil {
		return Failure(verr)
	}

	handler := d.routes[tool][action]
	if handler == nil {
		// Catalog and routing table out of sync; a programming error.
		return Failure(errUnexpected(fmt.Sprintf("no handler for %s/%s", tool, action)))
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	data, err := d.run(ctx, handler, args)
	if err != nil {
		return Failure(d.classify(ctx, err))
	}
	return Success(data)
}

// run invokes the handler, converting a panic into an error so one bad
// call can never take the server down.
func (d *Dispatcher) run(ctx context.Context, handler Handler, args map[string]any) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panicked", "panic", fmt.Sprint(r))
			err = errUnexpected(fmt.Sprintf("panic: %v", r))
		}
	}()
	return handler(ctx, d.svc, args)
}

// classify maps handler errors onto envelope kinds. Pipeline errors keep
// their kind, deadline hits become unexpected, anything else is a domain
// failure whose message passes through verbatim.
func (d *Dispatcher) classify(ctx context.Context, err error) *Error {
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return errUnexpected(fmt.Sprintf("call exceeded %s deadline", d.timeout))
	}
	return errDomain(err)
}
