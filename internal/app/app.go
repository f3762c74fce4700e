package app

import (
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/config"
	"github.com/adanyl0v/taskflow/internal/services"
	"github.com/adanyl0v/taskflow/internal/storage"
)

// App holds the process-wide dependencies while they are being wired.
// The Must* methods are meant to be called in order from main and panic
// on failure.
type App struct {
	logger   zerolog.Logger
	cfg      *config.Config
	storage  storage.Storage
	verifier services.IdentityVerifier
}

func New() *App {
	return &App{
		logger: newDefaultLogger(),
	}
}
