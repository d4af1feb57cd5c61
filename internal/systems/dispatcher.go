package systems

import (
	"context"
	"fmt"
	"time"

	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// System - одна система тика.
type System struct {
	Name string
	Run  func(ctx context.Context) error
}

// Func оборачивает систему без ошибок.
func Func(name string, fn func()) System {
	return System{Name: name, Run: func(context.Context) error {
		fn()
		return nil
	}}
}

// Stage - системы с непересекающимся доступом к данным. Внутри стадии они
// могут идти параллельно, стадии разделены барьером.
type Stage []System

// Dispatcher выполняет стадии по порядку.
type Dispatcher struct {
	stages   []Stage
	parallel bool
}

func NewDispatcher(parallel bool, stages ...Stage) *Dispatcher {
	return &Dispatcher{stages: stages, parallel: parallel}
}

// Run выполняет все стадии. На ошибке системы оставшиеся стадии пропускаются.
func (d *Dispatcher) Run(ctx context.Context) error {
	for i, stage := range d.stages {
		start := time.Now()
		var err error
		if d.parallel && len(stage) > 1 {
			err = runParallel(ctx, stage)
		} else {
			err = runSequential(ctx, stage)
		}
		if err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "dispatcher",
			"stage":     i,
			"systems":   len(stage),
			"elapsed":   time.Since(start),
		}).Trace("Stage complete")
	}
	return nil
}

func runSequential(ctx context.Context, stage Stage) error {
	for _, sys := range stage {
		if err := sys.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", sys.Name, err)
		}
	}
	return nil
}

func runParallel(ctx context.Context, stage Stage) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sys := range stage {
		sys := sys
		g.Go(func() error {
			if err := sys.Run(gctx); err != nil {
				return fmt.Errorf("%s: %w", sys.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
