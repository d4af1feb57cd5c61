package effects

import (
	"context"
	"time"

	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RunEffectsQueue разбирает очередь до тех пор, пока очередной Pop не вернёт пусто.
// Эффекты, добавленные обработчиками, встают в хвост и разбираются в этом же
// проходе (каскады идут в ширину). Блокировка очереди отпускается между
// эффектами, поэтому обработчики свободно вызывают Queue.Add.
//
// Прерывания нет: завершение гарантируется содержимым очереди.
// Возвращает число разобранных эффектов.
func RunEffectsQueue(ctx context.Context, env *Env) int {
	start := time.Now()
	processed := 0

	for {
		sp, ok := env.Queue.Pop()
		if !ok {
			break
		}
		apply(ctx, env, sp)
		processed++
	}

	elapsed := time.Since(start)
	env.metrics().DrainCompleted(ctx, processed, elapsed)
	if processed > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "effects_runner",
			"effects":   processed,
			"elapsed":   elapsed,
		}).Debug("Effects queue drained")
	}
	return processed
}

func apply(ctx context.Context, env *Env, sp Spawner) {
	if sp.Effect == nil || sp.Targets == nil {
		logger.Log.WithField("component", "effects_runner").Warn("Malformed effect spawner skipped")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "effects_runner",
		"effect":    sp.Effect.Kind().String(),
		"targets":   sp.Targets.String(),
		"creator":   sp.Creator.String(),
	}).Debug("Resolving effect")

	env.metrics().EffectResolved(ctx, sp.Effect.Kind())
	resolve(ctx, env, sp)
}
