package actions

import "cognitive-sim/internal/engine/handlers"

// HandleInit - клиент подключился и просит снимок мира. Ход не тратится.
func HandleInit(_ handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Welcome to Cognitive Dungeon.",
		MsgType: "INFO",
	}, nil
}
