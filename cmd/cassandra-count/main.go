// Command cassandra-count prints the exact number of rows in a Cassandra table.
//
// Usage:
//
//	cassandra-count --host 10.0.0.1 --keyspace shop --table orders [OPTIONS]
//
// On success exactly one line "<keyspace>.<table>: <count>" is written to stdout.
// Diagnostics go to stderr. The exit status is 0 on success, 2 for configuration
// errors and 1 for any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taboola/cassandra-count/internal/config"
	"github.com/taboola/cassandra-count/types"
)

var version = "dev"

const queryHint = "try increasing --num-splits or reducing --split-size"

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts config.Options

	cmd := &cobra.Command{
		Use:     "cassandra-count --host <hosts> --keyspace <ks> --table <table> [OPTIONS]",
		Short:   "Exact row count of a Cassandra table",
		Long:    "cassandra-count splits the token ring and sums one COUNT(*) per split.",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return types.NewConfigurationError("parse arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Load(cmd.Flags()); err != nil {
				return err
			}

			return run(cmd.Context(), &opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return types.NewConfigurationError("parse flags", err)
	})
	opts.Register(cmd.Flags())

	return cmd
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(stderr, "Error:", err)

	switch {
	case types.IsKind(err, types.KindConfiguration):
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	case types.IsKind(err, types.KindQuery) && !errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Hint:", queryHint)
	}

	return exitFailed
}
