// Package logger — структурированное логирование на базе zerolog.
// JSON для production, pretty-print для локальной разработки.
// Глобальный логгер настраивается один раз при старте процесса,
// дальше все пакеты пишут через него.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// log — глобальный экземпляр. До вызова Init() работает с настройками
// из переменных окружения (см. init).
var log zerolog.Logger

// Config — настройки логгера.
type Config struct {
	// Level — минимальный уровень: "debug", "info", "warn", "error".
	Level string

	// Pretty включает цветной консольный вывод вместо JSON.
	Pretty bool

	// Output — куда писать. По умолчанию os.Stdout.
	Output io.Writer
}

// init настраивает логгер до явного Init(), чтобы ранние сообщения
// (загрузка конфигурации и т.п.) не терялись.
func init() {
	pretty := strings.ToLower(os.Getenv("LOG_PRETTY")) == "true"

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	Init(Config{
		Level:  level,
		Pretty: pretty,
	})
}

// Init инициализирует глобальный логгер. Вызывается из main после
// загрузки конфигурации.
func Init(cfg Config) {
	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	// ConsoleWriter — человекочитаемый вывод для разработки.
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	level := parseLevel(cfg.Level)

	// Timestamp и caller добавляются к каждой записи.
	log = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
}

// parseLevel разбирает строковый уровень. Неизвестный уровень — info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug — событие уровня debug.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info — событие уровня info.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn — событие уровня warn.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error — событие уровня error.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal — событие уровня fatal. После Msg() процесс завершается с кодом 1.
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// Panic — событие уровня panic. После Msg() вызывается panic.
func Panic() *zerolog.Event {
	return log.Panic()
}

// With возвращает контекст для создания дочернего логгера с полями.
//
//	sagaLog := logger.With().Str("saga", "create_account").Logger()
func With() zerolog.Context {
	return log.With()
}

// Logger возвращает глобальный zerolog.Logger.
func Logger() zerolog.Logger {
	return log
}

// SetGlobalLogger подменяет глобальный логгер. Нужен в тестах.
func SetGlobalLogger(l zerolog.Logger) {
	log = l
}
