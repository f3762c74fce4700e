package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/config"
)

func newDefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	logger.Info().Msg("initialized default logger")
	return logger
}

func (a *App) MustInitApplicationLogger() {
	w := io.Writer(os.Stdout)
	switch a.cfg.Env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	default:
		a.logger.Error().
			Str("env", a.cfg.Env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", a.cfg.Env))
	}

	a.logger = a.logger.Output(w)
	a.logger.Info().Msg("initialized application logger")
}
