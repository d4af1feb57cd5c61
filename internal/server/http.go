package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/network"
	"cognitive-sim/internal/storage"
	"cognitive-sim/internal/version"
	"cognitive-sim/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Saves    *storage.SaveService // nil - сохранения выключены
	Port     string

	// Metrics - включает /metrics (экспортёр otel регистрируется в prometheus.DefaultRegisterer)
	Metrics bool
}

func New(inst *engine.Instance, hub *network.Broadcaster, port string) *Server {
	return &Server{
		Instance: inst,
		Hub:      hub,
		Port:     port,
	}
}

// Routes собирает все HTTP-маршруты сервера.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	if s.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	debugHandler := NewDebugHandler(s.Instance, s.Saves)
	debugHandler.RegisterRoutes(mux)
	return mux
}

// Run запускает HTTP сервер и останавливает его при отмене ctx.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP shutdown failed")
		}
	}()

	logger.Log.Infof("Cognitive Dungeon simulation running on :%s", s.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Instance, s.Hub, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Info())
}
