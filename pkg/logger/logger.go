package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с уровнем info, чтобы пакеты можно было
// использовать из тестов без явной инициализации.
var Log = logrus.New()

// Init инициализирует глобальный логгер по переменным окружения
// LOG_LEVEL и LOG_FORMAT.
func Init() {
	InitWith(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// InitWith настраивает логгер явно (значения из конфига).
// Переменные окружения LOG_LEVEL и LOG_FORMAT, если заданы, имеют приоритет.
func InitWith(level, format string, out io.Writer) {
	Log = logrus.New()

	// 1. Уровень. По умолчанию - "info".
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok && env != "" {
		level = env
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Форматтер: "json" - для продакшена, "text" - для разработки.
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok && env != "" {
		format = env
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Куда писать.
	if out == nil {
		out = os.Stdout
	}
	Log.SetOutput(out)
}

// WithComponent - короткий способ получить логгер подсистемы.
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
