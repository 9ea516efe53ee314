package jobs

import (
	"context"

	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/robfig/cron/v3"
)

// CronRunner runs periodic jobs with a shared base context. A run that is
// still in progress when its next tick fires causes that tick to be skipped.
type CronRunner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

func NewCronRunner(baseCtx context.Context) *CronRunner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	logger := cron.PrintfLogger(Logger.Log)
	return &CronRunner{
		cron:    cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		baseCtx: baseCtx,
	}
}

// Add schedules job on a standard 5 field cron spec or a descriptor such as
// "@every 1m".
func (r *CronRunner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

func (r *CronRunner) Start() {
	Logger.Log.Info("cron started")
	r.cron.Start()
}

// Stop waits for running jobs to return.
func (r *CronRunner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	Logger.Log.Info("cron stopped")
}
