package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/prefixkv/internal/cli/connection"
	"github.com/yndnr/prefixkv/internal/cli/output"
)

const warmupOps = 50

// PhaseReport is the result of one single-connection benchmark phase.
type PhaseReport struct {
	Phase     string        `json:"phase" yaml:"phase"`
	Ops       int           `json:"ops" yaml:"ops"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	OpsPerSec float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
}

// MultiReport is the result of a multi-connection benchmark.
type MultiReport struct {
	Threads      int           `json:"threads" yaml:"threads"`
	OpsPerThread int           `json:"ops_per_thread" yaml:"ops_per_thread"`
	TotalOps     int           `json:"total_ops" yaml:"total_ops"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
	OpsPerSec    float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
}

// BenchCommand returns the bench subcommand group.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark a server",
		Subcommands: []*cli.Command{
			{
				Name:  "single",
				Usage: "SET then GET n keys over single connections",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "n",
						Usage: "Operations per phase",
						Value: 20000,
					},
				},
				Action: benchSingle,
			},
			{
				Name:  "mt",
				Usage: "Concurrent SETs, one connection per worker",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "threads",
						Usage: "Number of workers",
						Value: 8,
					},
					&cli.IntFlag{
						Name:  "ops",
						Usage: "Operations per worker",
						Value: 2000,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Global ops/sec cap (0 = unlimited)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Show a progress line on stderr",
					},
				},
				Action: benchMulti,
			},
		},
	}
}

func benchSingle(c *cli.Context) error {
	n := c.Int("n")
	if n <= 0 {
		return errors.New("--n must be positive")
	}

	reports, err := RunSingle(newClient(c), n)
	if err != nil {
		return err
	}
	return render(c, reports)
}

// RunSingle warms up with a few SETs, then times n SETs on one connection
// and n GETs of the same keys on another.
func RunSingle(client *connection.Client, n int) ([]PhaseReport, error) {
	set, err := client.Dial()
	if err != nil {
		return nil, err
	}
	defer set.Close()

	for i := 0; i < warmupOps; i++ {
		if err := expect(set, fmt.Sprintf("SET warm%d v", i), "+OK"); err != nil {
			return nil, fmt.Errorf("warm-up: %w", err)
		}
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		if err := expect(set, fmt.Sprintf("SET k%d v%d", i, i), "+OK"); err != nil {
			return nil, err
		}
	}
	setReport := newPhaseReport("SET", n, time.Since(start))

	get, err := client.Dial()
	if err != nil {
		return nil, err
	}
	defer get.Close()

	start = time.Now()
	for i := 0; i < n; i++ {
		if err := expect(get, fmt.Sprintf("GET k%d", i), fmt.Sprintf("v%d", i)); err != nil {
			return nil, err
		}
	}
	getReport := newPhaseReport("GET", n, time.Since(start))

	return []PhaseReport{setReport, getReport}, nil
}

func benchMulti(c *cli.Context) error {
	threads, ops := c.Int("threads"), c.Int("ops")
	if threads <= 0 || ops <= 0 {
		return errors.New("--threads and --ops must be positive")
	}

	var progress *output.Progress
	if c.Bool("progress") {
		progress = output.NewProgress(c.App.ErrWriter, "bench mt", int64(threads*ops))
	}

	report, err := RunMulti(c.Context, newClient(c), threads, ops, c.Float64("rate"), progress)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}
	return render(c, report)
}

// RunMulti starts threads workers, each issuing ops SETs on its own
// connection. A positive opsPerSec caps the combined request rate.
func RunMulti(ctx context.Context, client *connection.Client, threads, ops int, opsPerSec float64, progress *output.Progress) (*MultiReport, error) {
	var limiter *rate.Limiter
	if opsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opsPerSec), max(1, int(opsPerSec)))
	}

	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()

	for tid := 0; tid < threads; tid++ {
		g.Go(func() error {
			sess, err := client.Dial()
			if err != nil {
				return err
			}
			defer sess.Close()

			for i := 0; i < ops; i++ {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
				} else if err := ctx.Err(); err != nil {
					return err
				}
				if err := expect(sess, fmt.Sprintf("SET t%d-%d v", tid, i), "+OK"); err != nil {
					return fmt.Errorf("worker %d: %w", tid, err)
				}
				if progress != nil {
					progress.Add(1)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	total := threads * ops
	return &MultiReport{
		Threads:      threads,
		OpsPerThread: ops,
		TotalOps:     total,
		Elapsed:      elapsed,
		OpsPerSec:    opsPerSecond(total, elapsed),
	}, nil
}

func expect(sess *connection.Session, line, want string) error {
	reply, err := sess.Do(line)
	if err != nil {
		return err
	}
	if reply != want {
		return fmt.Errorf("%s: got %q, want %q", line, reply, want)
	}
	return nil
}

func newPhaseReport(phase string, ops int, elapsed time.Duration) PhaseReport {
	return PhaseReport{
		Phase:     phase,
		Ops:       ops,
		Elapsed:   elapsed,
		OpsPerSec: opsPerSecond(ops, elapsed),
	}
}

func opsPerSecond(ops int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(ops) / elapsed.Seconds()
}
