package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/invest"
	"github.com/etnz/invest/scheduler"
	"github.com/google/subcommands"
)

type scheduleCmd struct {
	cron   string
	dryRun bool
	now    bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run sync periodically until interrupted" }
func (*scheduleCmd) Usage() string {
	return `invsync schedule [-cron <expr>] [-n] [-now]

  Runs a sync on a cron schedule, evaluated in the configured time zone,
  until interrupted. A failed run is logged and retried at the next tick.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cron, "cron", "", "cron expression, defaults to the configured schedule")
	f.BoolVar(&c.dryRun, "n", false, "dry run: compute adjustments but do not post them")
	f.BoolVar(&c.now, "now", false, "also run once immediately")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := loadApp(true)
	if a == nil {
		return status
	}
	defer a.Close()

	s, err := a.syncer(c.dryRun)
	if err != nil {
		return failure("creating syncer", err)
	}
	schedule := c.cron
	if schedule == "" {
		schedule = a.cfg.Schedule
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(ctx, s.Location, a.log)
	job := syncJob{s}
	if err := sched.AddJob(schedule, job); err != nil {
		return failure("scheduling "+schedule, err)
	}
	if c.now {
		if err := sched.RunNow(job); err != nil {
			a.log.Error().Err(err).Msg("Sync failed")
		}
	}
	sched.Start()
	a.log.Info().Time("next", sched.Next()).Msg("Waiting for the next sync")
	<-ctx.Done()
	sched.Stop()
	return subcommands.ExitSuccess
}

// syncJob runs a Syncer as a scheduled job.
type syncJob struct{ s *invest.Syncer }

func (syncJob) Name() string { return "sync" }

func (j syncJob) Run(ctx context.Context) error {
	_, err := j.s.Run(ctx)
	return err
}
