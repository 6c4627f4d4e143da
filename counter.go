package count

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/planner"
	"github.com/taboola/cassandra-count/scatter"
	"github.com/taboola/cassandra-count/topology"
	"github.com/taboola/cassandra-count/types"
)

// Counter runs exact row counts of one table.
//
// A Counter may be run more than once; each Run is independent and starts from INIT.
// Runs must not overlap.
type Counter struct {
	config Config
	opts   options

	mu    sync.RWMutex
	state types.RunState
}

// New validates cfg and creates a Counter.
//
// Parameters:
//   - cfg: Run configuration, usually derived from DefaultConfig
//   - opts: Optional collaborators (logger, metrics, reporters, source)
//
// Returns:
//   - *Counter: A counter in state INIT
//   - error: A configuration error if cfg is invalid
func New(cfg Config, opts ...Option) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Counter{config: cfg, opts: o, state: types.StateInit}, nil
}

// Config returns the run configuration.
func (c *Counter) Config() Config {
	return c.config
}

// State returns the state of the current or last run.
func (c *Counter) State() types.RunState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

func (c *Counter) transition(to types.RunState) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	c.opts.logger.Debug("run state", "from", from.String(), "to", to.String())
	if c.opts.observer != nil {
		c.opts.observer(from, to)
	}
}

// Run connects, plans, counts every split and reports the result.
//
// The session returned by connect is closed before Run returns. Reporters only run when
// every split was counted.
//
// Parameters:
//   - ctx: Context for cancellation of the whole run
//   - connect: Opens the session
//
// Returns:
//   - *Result: The completed run; non-nil whenever the count succeeded, even if a
//     reporter then failed
//   - error: A typed error if the run aborted, or a reporter error
func (c *Counter) Run(ctx context.Context, connect ConnectFunc) (*Result, error) {
	logger := c.opts.logger
	result := &Result{
		RunID:     uuid.New(),
		Keyspace:  c.config.Keyspace,
		Table:     c.config.Table,
		StartedAt: time.Now(),
	}

	if c.State() != types.StateInit {
		c.transition(types.StateInit)
	}

	session, err := c.connect(ctx, connect)
	if err != nil {
		return nil, c.abort(err)
	}
	defer session.Close()
	c.transition(types.StateConnected)

	system := topology.NewCQL(session, topology.WithLogger(logger))
	partitionKey, err := system.PartitionKey(ctx, c.config.Keyspace, c.config.Table)
	if err != nil {
		return nil, c.abort(types.NewQueryError("read partition key", err))
	}

	source := c.opts.source
	if source == nil {
		source = system
	}

	plan, err := planner.New(source,
		planner.WithLogger(logger),
		planner.WithMetrics(c.opts.metrics),
	).Plan(ctx, c.config.plannerConfig())
	if err != nil {
		return nil, c.abort(err)
	}
	c.transition(types.StatePlanned)

	result.Strategy = plan.Strategy
	result.Splits = len(plan.Splits)

	counter := &sessionCounter{
		session:     session,
		statement:   CountStatement(c.config.Keyspace, c.config.Table, partitionKey),
		consistency: c.config.Consistency,
	}
	logger.Debug("count statement", "cql", counter.statement)

	executor := scatter.New(
		scatter.WithWindowSize(c.config.NumFutures),
		scatter.WithQueryTimeout(c.config.ReadTimeout),
		scatter.WithCancelOnFailure(c.config.CancelOnFailure),
		scatter.WithLogger(logger),
		scatter.WithMetrics(c.opts.metrics),
	)

	c.transition(types.StateExecuting)
	total, err := executor.Execute(ctx, plan.Splits, counter)
	if err != nil {
		return nil, c.abort(err)
	}

	result.Count = total
	result.Duration = time.Since(result.StartedAt)
	c.transition(types.StateComplete)
	c.opts.metrics.AddRowsCounted(total)
	c.opts.metrics.IncRunComplete()

	logger.Info("count complete", "run_id", result.RunID.String(), "table", result.Name(),
		"count", total, "splits", result.Splits, "duration", result.Duration)

	return result, c.report(ctx, result)
}

func (c *Counter) connect(ctx context.Context, connect ConnectFunc) (cql.Session, error) {
	if connect == nil {
		return nil, types.NewConfigurationError("connect", errors.New("no connect function given"))
	}

	session, err := connect(ctx)
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, types.NewConnectionError("connect", err)
	}
	if session == nil {
		return nil, types.NewConnectionError("connect", types.ErrNilSession)
	}

	return session, nil
}

func (c *Counter) abort(err error) error {
	c.transition(types.StateAborted)
	c.opts.metrics.IncRunAborted()
	c.opts.logger.Error("count aborted", "table", c.config.Keyspace+"."+c.config.Table, "error", err)

	return err
}

func (c *Counter) report(ctx context.Context, result *Result) error {
	var errs []error
	for _, r := range c.opts.reporters {
		if err := r.Report(ctx, result); err != nil {
			errs = append(errs, fmt.Errorf("report result: %w", err))
		}
	}

	return errors.Join(errs...)
}
