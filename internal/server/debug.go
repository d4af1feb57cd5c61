package server

import (
	"encoding/json"
	"net/http"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/storage"
	"cognitive-sim/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию симуляции.
// Все чтения идут через Instance.Inspect, то есть в горутине игрового цикла.
type DebugHandler struct {
	Instance *engine.Instance
	Saves    *storage.SaveService
}

func NewDebugHandler(inst *engine.Instance, saves *storage.SaveService) *DebugHandler {
	return &DebugHandler{Instance: inst, Saves: saves}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/world", h.handleWorld)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/save", h.handleSave)
}

// WorldSummary - сводка по активному слою.
type WorldSummary struct {
	Depth         int    `json:"depth"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Tick          uint64 `json:"tick"`
	State         string `json:"state"`
	EntityCount   int    `json:"entity_count"`
	IndexedCount  int    `json:"indexed_count"`
	PendingEffect int    `json:"pending_effects"`
	Invariant     string `json:"invariant"`
}

// /debug/world - сводка и проверка согласованности индекса
func (h *DebugHandler) handleWorld(w http.ResponseWriter, r *http.Request) {
	var summary WorldSummary
	err := h.Instance.Inspect(r.Context(), func(s *engine.Simulation) {
		summary = WorldSummary{
			Depth:         s.Depth(),
			Width:         s.Map.Width,
			Height:        s.Map.Height,
			Tick:          s.TickCount(),
			State:         s.State().String(),
			EntityCount:   s.Store.World.Len(),
			IndexedCount:  s.Index.Len(),
			PendingEffect: s.Queue.Len(),
			Invariant:     "ok",
		}
		if err := s.CheckIndexInvariant(); err != nil {
			summary.Invariant = err.Error()
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, summary)
}

// /debug/entities - дамп всех сущностей в формате сохранения
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	var (
		snap    *storage.Snapshot
		snapErr error
	)
	err := h.Instance.Inspect(r.Context(), func(s *engine.Simulation) {
		snap, snapErr = storage.Capture(s, time.Now())
	})
	if err == nil {
		err = snapErr
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.Entities)
}

// POST /debug/save - сохранить игру в SaveDir
func (h *DebugHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Saves == nil {
		http.Error(w, "saves are disabled", http.StatusNotFound)
		return
	}

	var (
		path    string
		saveErr error
	)
	err := h.Instance.Inspect(r.Context(), func(s *engine.Simulation) {
		path, saveErr = h.Saves.Save(s)
	})
	if err == nil {
		err = saveErr
	}
	if err != nil {
		logger.WithComponent("debug").WithError(err).Warn("Save failed")
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]string{"path": path})
}

func writeJSON(w http.ResponseWriter, data any) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Пустой список - [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
