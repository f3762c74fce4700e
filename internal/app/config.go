package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/taskflow/internal/config"
)

func (a *App) MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	a.logger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("read env")

	a.cfg = cfg
}
