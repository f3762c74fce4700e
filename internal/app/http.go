package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/config"
	"github.com/adanyl0v/taskflow/internal/delivery/http/v1"
	"github.com/adanyl0v/taskflow/internal/security"
	"github.com/adanyl0v/taskflow/internal/services"
)

func (a *App) MustListenAndServeHTTP() {
	if a.cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := a.cfg.HTTP

	router := gin.New()
	router.Use(v1.RequestLogger(a.logger))
	router.Use(gin.Recovery())
	a.registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		a.logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT.
	// SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	a.logger.Info().Msg("shut down http server")
}

func (a *App) registerRoutes(router *gin.Engine) {
	jwtCfg := a.cfg.JWT
	uploadCfg := a.cfg.Upload

	hasher := security.NewPasswordHasher(nil)
	tokens := security.NewTokenIssuer(jwtCfg.Issuer, []byte(jwtCfg.Secret), jwtCfg.TokenTTL)

	handler := v1.New(a.logger, v1.Services{
		Auth:     services.NewAuthService(a.logger, a.storage, a.storage, hasher, tokens, jwtCfg.RefreshTokenTTL, a.verifier),
		Sessions: services.NewSessionService(a.logger, a.storage),
		Tasks:    services.NewTaskService(a.logger, a.storage, a.storage, a.storage),
		Users:    services.NewUserService(a.logger, a.storage, hasher, uploadCfg.Dir, uploadCfg.MaxSize),
		Folders:  services.NewFolderService(a.logger, a.storage, a.storage),
		Teams:    services.NewTeamService(a.logger, a.storage, a.storage, a.storage),
		Habits:   services.NewHabitService(a.logger, a.storage, a.storage, a.storage),
		Health:   a.storage,
	})

	router.MaxMultipartMemory = uploadCfg.MaxSize
	router.Static(strings.TrimSuffix(services.AvatarURLPrefix, "/"), uploadCfg.Dir)
	v1.RegisterRoutes(router, handler, a.verifier != nil)
}
