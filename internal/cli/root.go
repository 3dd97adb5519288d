// Package cli implements leettrackctl, the operator command line for the
// statistics cache.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/leettrack-backend/internal/app"
	"github.com/yungbote/leettrack-backend/internal/services"
)

// Backend is the slice of the service the read commands need.
type Backend struct {
	UserStats    services.UserStatsService
	DailyProblem services.DailyProblemService
	Close        func() error
}

type BackendFactory func(ctx context.Context) (*Backend, error)

func appBackend(ctx context.Context) (*Backend, error) {
	a, err := app.New(ctx)
	if err != nil {
		return nil, err
	}
	return &Backend{
		UserStats:    a.Services.UserStats,
		DailyProblem: a.Services.DailyProblem,
		Close:        a.Close,
	}, nil
}

type options struct {
	output      string
	newBackend  BackendFactory
	now         func() time.Time
	runServer   func(ctx context.Context) error
	warmTimeout time.Duration
}

// NewRootCmd builds the command tree. A nil factory wires the real service
// from the environment.
func NewRootCmd(factory BackendFactory) *cobra.Command {
	if factory == nil {
		factory = appBackend
	}
	opts := &options{
		newBackend:  factory,
		now:         time.Now,
		runServer:   serve,
		warmTimeout: 30 * time.Second,
	}

	root := &cobra.Command{
		Use:           "leettrackctl",
		Short:         "LeetTrack cache operator CLI",
		Long:          `Inspect and warm the LeetTrack statistics cache, or run the HTTP service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format (json|yaml)")

	root.AddCommand(
		newServeCmd(opts),
		newStatsCmd(opts),
		newRecentCmd(opts),
		newDailyCmd(opts),
		newDayKeyCmd(opts),
		newWarmCmd(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) print(w io.Writer, v any) error {
	return render(w, o.output, v)
}

// withBackend opens a backend for the duration of fn.
func (o *options) withBackend(ctx context.Context, fn func(b *Backend) error) error {
	b, err := o.newBackend(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if b.Close != nil {
			_ = b.Close()
		}
	}()
	return fn(b)
}
