package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	count "github.com/taboola/cassandra-count"
	"github.com/taboola/cassandra-count/adapter/cql"
	cqlv1 "github.com/taboola/cassandra-count/adapter/cql/v1"
	cqlv2 "github.com/taboola/cassandra-count/adapter/cql/v2"
	vmmetrics "github.com/taboola/cassandra-count/contrib/metrics/vm"
	"github.com/taboola/cassandra-count/internal/config"
	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/report"
	"github.com/taboola/cassandra-count/types"
)

func run(ctx context.Context, opts *config.Options, stdout, stderr io.Writer) (err error) {
	logger := logging.New(stderr, opts.Debug)
	logger.Info("cassandra-count", "version", version)

	cfg, err := opts.CountConfig()
	if err != nil {
		return err
	}
	connectOpts, err := opts.ConnectOptions()
	if err != nil {
		return err
	}

	counterOpts := []count.Option{
		count.WithLogger(logger),
		count.WithReporter(report.NewWriter(stdout)),
	}

	if opts.MetricsFile != "" {
		collector := vmmetrics.New(
			vmmetrics.WithMetricsSet(metrics.NewSet()),
			vmmetrics.WithTable(cfg.Keyspace, cfg.Table),
		)
		counterOpts = append(counterOpts, count.WithMetrics(collector))
		defer func() {
			if werr := writeMetrics(opts.MetricsFile, collector); werr != nil {
				err = errors.Join(err, werr)
			}
		}()
	}

	if opts.NATSURL != "" {
		publisher, closeNATS, nerr := connectNATS(ctx, opts, connectOpts.ConnectTimeout, logger)
		if nerr != nil {
			return nerr
		}
		defer closeNATS()
		counterOpts = append(counterOpts, count.WithReporter(publisher))
	}

	counter, err := count.New(cfg, counterOpts...)
	if err != nil {
		return err
	}

	_, err = counter.Run(ctx, connector(opts.Driver, connectOpts))

	return err
}

func connector(driver string, opts cql.ConnectOptions) count.ConnectFunc {
	return func(context.Context) (cql.Session, error) {
		if driver == config.DriverV2 {
			return cqlv2.Connect(opts)
		}

		return cqlv1.Connect(opts)
	}
}

func connectNATS(ctx context.Context, opts *config.Options, timeout time.Duration, logger types.Logger) (*report.NATS, func(), error) {
	nc, err := nats.Connect(opts.NATSURL, nats.Name("cassandra-count"), nats.Timeout(timeout))
	if err != nil {
		return nil, nil, types.NewConnectionError("connect to NATS", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, types.NewConnectionError("open JetStream", err)
	}

	kv, err := report.OpenBucket(ctx, js, opts.NATSBucket)
	if err != nil {
		nc.Close()
		return nil, nil, types.NewConnectionError("open result bucket", err)
	}

	publisher, err := report.NewNATS(kv, report.WithLogger(logger))
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return publisher, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("drain NATS connection", "error", err)
		}
	}, nil
}

func writeMetrics(path string, collector *vmmetrics.Collector) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	collector.WritePrometheus(f)

	if err := f.Close(); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}
