package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cognitive-sim/internal/agent"
	"cognitive-sim/internal/config"
	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/network"
	"cognitive-sim/internal/observe"
	"cognitive-sim/internal/server"
	"cognitive-sim/internal/storage"
	"cognitive-sim/internal/version"
	"cognitive-sim/pkg/logger"
)

func main() {
	// 1. Флаги
	var (
		configPath string
		seed       int64
		loadPath   string
		headless   int
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (defaults are used when empty)")
	flag.Int64Var(&seed, "seed", 0, "Master seed override (0 keeps config/random)")
	flag.StringVar(&loadPath, "load", "", "Path to .cdsv save file to continue")
	flag.IntVar(&headless, "headless", 0, "Run the bot for N turns without HTTP server and exit")
	flag.Parse()

	// 2. Конфиг и логгер
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	} else if err := config.ApplyEnv(cfg); err != nil {
		logger.Log.WithError(err).Fatal("Invalid environment")
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if err := config.Validate(cfg); err != nil {
		logger.Log.WithError(err).Fatal("Invalid config")
	}
	logger.InitWith(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	log := logger.WithComponent("main")
	log.Info("Starting Cognitive Dungeon simulation...")
	log.Info(version.String())
	log.Infof("Using master seed: %d", cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Метрики
	opts := engine.OptionsFromConfig(cfg)
	if cfg.Metrics.Enabled {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version.String()})
		if err != nil {
			log.WithError(err).Fatal("Failed to init metrics provider")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Metrics shutdown failed")
			}
		}()

		metrics, err := observe.Global()
		if err != nil {
			log.WithError(err).Fatal("Failed to create instruments")
		}
		opts.Metrics = metrics
	}

	// 4. Симуляция: новая или из сохранения
	saves, err := storage.NewSaveService(cfg.Storage.SaveDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to prepare save dir")
	}

	var sim *engine.Simulation
	if loadPath != "" {
		sim, err = saves.Load(loadPath, opts)
		if err != nil {
			log.WithError(err).Fatal("Failed to load save")
		}
		log.WithField("path", loadPath).Info("Save loaded")
	} else {
		sim = engine.New(opts)
	}

	hub := network.NewBroadcaster()
	inst := engine.NewInstance(strconv.FormatInt(cfg.Seed, 10), sim, hub)

	// 5. Headless: бот играет N ходов
	if headless > 0 {
		runHeadless(ctx, inst, hub, headless)
		return
	}

	go func() {
		if err := inst.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Instance stopped")
		}
	}()

	srv := server.New(inst, hub, strconv.Itoa(cfg.Server.Port))
	srv.Saves = saves
	srv.Metrics = cfg.Metrics.Enabled
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("Server start error")
	}

	log.Info("Shutting down...")
	log.Info("Done.")
}

func runHeadless(ctx context.Context, inst *engine.Instance, hub *network.Broadcaster, turns int) {
	log := logger.WithComponent("headless")
	log.WithField("turns", turns).Info("Mode: headless bot")

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = inst.Run(loopCtx) }()

	bot := agent.NewBot("headless", hub.Register("headless"), inst)
	bot.MaxTurns = turns
	res := bot.Run(loopCtx)

	var tick uint64
	var depth int
	if err := inst.Inspect(loopCtx, func(s *engine.Simulation) {
		tick, depth = s.TickCount(), s.Depth()
		if err := s.CheckIndexInvariant(); err != nil {
			log.WithError(err).Error("Index invariant violated")
		}
	}); err != nil {
		log.WithError(err).Warn("Final inspection skipped")
	}

	log.WithField("turns", res.Turns).
		WithField("tick", tick).
		WithField("depth", depth).
		WithField("dead", res.Dead).
		Info("Headless run finished")
}
