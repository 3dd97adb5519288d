package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/leettrack-backend/internal/app"
	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/services"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

func serve(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return a.Run(ctx)
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runServer(cmd.Context())
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [username]",
		Short: "Show cached solved statistics for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			difficulty, _ := cmd.Flags().GetString("difficulty")
			return opts.withBackend(cmd.Context(), func(b *Backend) error {
				if difficulty == "" {
					view, err := b.UserStats.GetStatsView(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return opts.print(cmd.OutOrStdout(), view)
				}
				d, ok := parseBucket(difficulty)
				if !ok {
					return fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", difficulty)
				}
				view, err := b.UserStats.GetDifficultyView(cmd.Context(), args[0], d)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), view)
			})
		},
	}
	cmd.Flags().StringP("difficulty", "d", "", "Show a single bucket (easy|medium|hard)")
	return cmd
}

func newRecentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recent [username]",
		Short: "Show a user's most recent submissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b *Backend) error {
				view, err := b.UserStats.GetRecentSubmissions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), view)
			})
		},
	}
}

func newDailyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show the problem of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b *Backend) error {
				rec, err := b.DailyProblem.GetProblemOfTheDay(cmd.Context())
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), rec)
			})
		},
	}
}

func parseBucket(raw string) (domain.Difficulty, bool) {
	d, ok := domain.ParseDifficulty(raw)
	if !ok || d == domain.DifficultyAll {
		return "", false
	}
	return d, true
}

type dayKeyResult struct {
	DayKey    string    `json:"dayKey"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Timezone  string    `json:"timezone"`
	ResetHour int       `json:"resetHour"`
}

func newDayKeyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daykey",
		Short: "Print the daily-problem bucket for an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, _ := cmd.Flags().GetString("at")
			tz, _ := cmd.Flags().GetString("timezone")
			hour, _ := cmd.Flags().GetInt("reset-hour")

			days, err := statcache.NewDayKeyer(tz, hour)
			if err != nil {
				return err
			}
			now := opts.now()
			if at != "" {
				now, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
			}
			start, end := days.Range(now)
			return opts.print(cmd.OutOrStdout(), dayKeyResult{
				DayKey:    days.DayKey(now),
				Start:     start,
				End:       end,
				Timezone:  days.Location().String(),
				ResetHour: days.ResetHour(),
			})
		},
	}
	cmd.Flags().String("at", "", "Instant to evaluate (RFC3339, default now)")
	cmd.Flags().String("timezone", statcache.DefaultResetTimezone, "IANA zone the day resets in")
	cmd.Flags().Int("reset-hour", statcache.DefaultResetHour, "Local hour the day resets at (0-23)")
	return cmd
}

type warmResult struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

func newWarmCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm [username...]",
		Short: "Refresh the cache for several users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parallel, _ := cmd.Flags().GetInt("parallel")
			if parallel < 1 {
				parallel = 1
			}
			return opts.withBackend(cmd.Context(), func(b *Backend) error {
				results := warm(cmd.Context(), b.UserStats, args, parallel, opts.warmTimeout)
				if err := opts.print(cmd.OutOrStdout(), results); err != nil {
					return err
				}
				for _, r := range results {
					if r.Status == "error" {
						return fmt.Errorf("warm failed for one or more users")
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntP("parallel", "p", 4, "Max users to refresh in parallel")
	return cmd
}

// warm loads each username through the cache engine. Results keep input order;
// a not-found user is reported but is not a failure.
func warm(ctx context.Context, stats services.UserStatsService, usernames []string, parallel int, timeout time.Duration) []warmResult {
	results := make([]warmResult, len(usernames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, username := range usernames {
		i, username := i, username
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()
			res := warmResult{Username: username, Status: "ok"}
			if _, err := stats.GetUserStats(callCtx, username); err != nil {
				if errors.Is(err, services.ErrUserNotFound) {
					res.Status = "not_found"
				} else {
					res.Status = "error"
					res.Error = err.Error()
				}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}
