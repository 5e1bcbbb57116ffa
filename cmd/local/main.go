package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbriard/carnets/internal/local"
	"github.com/mbriard/carnets/internal/local/config"
	"github.com/mbriard/carnets/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, repos, err := local.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer db.Close()

	profileID := cfg.ProfileID
	if profileID == "" {
		profileID = local.NewProfileID()
		logger.Info(ctx, "generated profile id", "profile_id", profileID)
	}

	svc := local.NewService(db, repos, profileID, logger)
	svc.SetRetention(cfg.RetainCount, cfg.RetainMaxAge)

	if err := svc.EnsureProfile(ctx, cfg.ProfileEmail, ""); err != nil {
		logger.Error(ctx, "profile init", "error", err)
		return
	}

	// Opportunistic maintenance before the timer starts.
	if n, err := svc.PruneExpired(ctx, time.Now()); err != nil {
		logger.Warn(ctx, "prune expired slots", "error", err)
	} else if n > 0 {
		logger.Info(ctx, "pruned expired slots", "count", n)
	}

	scheduler := local.NewScheduler(svc, cfg.BackupInterval, logger)
	handle := scheduler.Start(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-sigs

	// The teardown hook: one last snapshot before exit.
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	handle.Stop(stopCtx)
}
