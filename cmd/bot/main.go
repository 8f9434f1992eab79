// Command bot runs the PUG picker.
//
// this binary:
//  1. loads config from environment variables (.env during dev)
//  2. opens the priority store and builds the session
//  3. connects to Twitch chat and serves the HTTP control surface
//  4. optionally mirrors the session into a Discord channel
//  5. waits for SIGINT/SIGTERM and shuts everything down
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	disc "github.com/jose-valero/pug-picker-bot/internal/adapters/discord"
	"github.com/jose-valero/pug-picker-bot/internal/adapters/twitch"
	"github.com/jose-valero/pug-picker-bot/internal/app"
	"github.com/jose-valero/pug-picker-bot/internal/domain/events"
	"github.com/jose-valero/pug-picker-bot/internal/httpapi"
	"github.com/jose-valero/pug-picker-bot/internal/picker"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
	"github.com/jose-valero/pug-picker-bot/internal/storage/memory"
	"github.com/jose-valero/pug-picker-bot/internal/storage/postgres"
	"github.com/jose-valero/pug-picker-bot/internal/storage/sqlite"
	"github.com/jose-valero/pug-picker-bot/pkg/config"
)

func main() {
	// read and validate the config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	return zc.Build()
}

func openStore(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DatabasePath, log)
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseURL, log)
	case config.DriverMemory:
		log.Warn("memory store selected, priorities are lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger.Named("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	bus := events.NewBus(logger.Named("events"))
	session := app.NewSession(app.SessionDeps{
		Picker:   picker.New(store, picker.WithLogger(logger.Named("picker"))),
		Recorder: store,
		Bus:      bus,
		Quotas:   cfg.Quotas(),
		Log:      logger.Named("session"),
	})

	chat := twitch.New(twitch.Config{
		URL:            cfg.WebSocketURI,
		Username:       cfg.BotUsername,
		Token:          cfg.OAuthToken,
		Channel:        cfg.Channel,
		ReconnectDelay: cfg.ReconnectDelay,
	}, logger.Named("twitch"))
	interp := app.NewInterpreter(session, app.NewAdmins(cfg.Admins), logger.Named("interpreter"))
	bot := app.NewBot(chat, interp, logger.Named("bot"))

	// block until SIGINT/SIGTERM; this allows a clean shutdown (Ctrl+c, kill, etc)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.DiscordEnabled() {
		// REST only: the announcer never opens the gateway
		sess, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("discord session: %w", err)
		}
		botID := ""
		if u, err := sess.User("@me"); err == nil {
			botID = u.ID
		} else {
			logger.Warn("discord identity lookup failed", zap.Error(err))
		}
		ann := disc.NewAnnouncer(sess, cfg.DiscordChannelID, botID, logger.Named("discord"))
		defer ann.Attach(bus)()
		g.Go(func() error { return ann.Run(ctx) })
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(session, httpapi.Options{
			Connected:  chat.Connected,
			DebugTools: cfg.DebugTools,
			Log:        logger.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return bot.Run(ctx) })

	logger.Info("bot ready", zap.String("config", cfg.Redacted()))
	err = g.Wait()
	logger.Info("bot shut down")
	return err
}
