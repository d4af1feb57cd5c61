package actions

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/engine/handlers"
)

func HandleWait(_ handlers.Context) (handlers.Result, error) {
	return handlers.Issue(domain.Command{Action: domain.ActionWait, Target: -1}), nil
}

func HandlePickup(_ handlers.Context) (handlers.Result, error) {
	return handlers.Issue(domain.Command{Action: domain.ActionPickup, Target: -1}), nil
}

func HandleDescend(_ handlers.Context) (handlers.Result, error) {
	return handlers.Issue(domain.Command{Action: domain.ActionDescend, Target: -1}), nil
}
