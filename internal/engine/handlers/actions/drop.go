package actions

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/engine/handlers"
	"cognitive-sim/pkg/api"
)

// HandleDrop обрабатывает команду DROP - выброс предмета из рюкзака под ноги
func HandleDrop(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	item, res, ok := carriedItem(ctx, p.ItemID)
	if !ok {
		return res, nil
	}
	return handlers.Issue(domain.Command{Action: domain.ActionDrop, Item: item, Target: -1}), nil
}
