package actions

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/engine/handlers"
	"cognitive-sim/pkg/api"
)

// HandleMove - шаг на соседнюю клетку (с диагоналями). Враг в клетке атакуется.
func HandleMove(_ handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	return handlers.Issue(domain.Command{Action: domain.ActionMove, DX: p.Dx, DY: p.Dy, Target: -1}), nil
}
