package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// SaveService пишет и читает файлы сохранений в каталоге SaveDir.
type SaveService struct {
	SaveDir string
	now     func() time.Time
}

func NewSaveService(dir string) (*SaveService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &SaveService{SaveDir: dir, now: time.Now}, nil
}

// Save снимает состояние симуляции и пишет его в новый файл. Возвращает путь.
func (s *SaveService) Save(sim *engine.Simulation) (string, error) {
	snap, err := Capture(sim, s.now())
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("save_%d_lvl%d_%d.cdsv", snap.Seed, snap.Layer, snap.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := Write(buf, snap); err != nil {
		return "", err
	}
	if err := buf.Flush(); err != nil {
		return "", err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"path":      path,
		"tick":      snap.Tick,
		"entities":  len(snap.Entities),
	}).Info("Game saved")
	return path, nil
}

// Load читает файл и восстанавливает по нему симуляцию.
func (s *SaveService) Load(path string, opts engine.Options) (*engine.Simulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Restore(opts, snap)
}
