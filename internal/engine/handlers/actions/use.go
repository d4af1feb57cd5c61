package actions

import (
	"fmt"
	"strconv"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/engine/handlers"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HandleUse - применение предмета из рюкзака. Для предметов дальнего действия
// клиент передаёт клетку цели (x, y).
func HandleUse(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	item, res, ok := carriedItem(ctx, p.ItemID)
	if !ok {
		return res, nil
	}

	target := -1
	if p.X != nil && p.Y != nil {
		if !ctx.Map.InBounds(*p.X, *p.Y) {
			return handlers.Result{Msg: "That target is out of reach.", MsgType: "ERROR"}, nil
		}
		target = ctx.Map.Index(*p.X, *p.Y)
	}
	if ctx.Store.Ranged.Has(item) && target < 0 {
		return handlers.Result{Msg: "You need to pick a target.", MsgType: "ERROR"}, nil
	}

	return handlers.Issue(domain.Command{Action: domain.ActionUse, Item: item, Target: target}), nil
}

// carriedItem разбирает id предмета и проверяет, что он в рюкзаке актора.
func carriedItem(ctx handlers.Context, rawID string) (ecs.Entity, handlers.Result, bool) {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "item_handler",
		"actor":     ctx.Actor.String(),
		"item_id":   rawID,
	})

	v, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		log.WithError(err).Warn("Malformed item id")
		return 0, handlers.Result{Msg: fmt.Sprintf("Unknown item %q.", rawID), MsgType: "ERROR"}, false
	}
	item := ecs.Entity(v)

	pack, ok := ctx.Store.Backpacks.Get(item)
	if !ok || pack.Owner != ctx.Actor {
		log.Warn("Item not found in backpack")
		return 0, handlers.Result{Msg: "You don't have that item.", MsgType: "ERROR"}, false
	}
	return item, handlers.Result{}, true
}
