package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	// Counters reset at the local day boundary; rebuild them from the order
	// log so the cached counts can never drift from it.
	_, err = a.sched.AddFunc("@midnight", func() {
		a.SchedRebuildCounters()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedPurgeStaleCounters()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedRebuildCounters rebuilds per-customer daily order counters
func (a *Application) SchedRebuildCounters() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if err := a.shopSvc.Rebuild(context.Background()); err != nil {
		zap.L().Error("scheduled counter rebuild failed", zap.Error(err))
	}
}

// SchedPurgeStaleCounters drops counters left over from previous days
func (a *Application) SchedPurgeStaleCounters() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if n := a.shopSvc.PurgeStaleCounters(); n > 0 {
		zap.L().Debug("purged stale customer counters", zap.Int("removed", n))
	}
}
