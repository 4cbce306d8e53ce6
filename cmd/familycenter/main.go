package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/backup"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/database"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/logging"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/server"
)

// undoWindow is how long a soft-deleted event can still be restored before
// the purge ticker hard-deletes the tombstone.
const undoWindow = 5 * time.Minute

func main() {
	logger := logging.Setup(os.Getenv("FCC_LOG_LEVEL"))

	port := os.Getenv("FCC_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("FCC_DB_PATH")
	if dbPath == "" {
		dbPath = "familycenter.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("FCC_S3_ENDPOINT"),
			Bucket:    os.Getenv("FCC_S3_BUCKET"),
			Region:    os.Getenv("FCC_S3_REGION"),
			AccessKey: os.Getenv("FCC_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("FCC_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		Passphrase:    os.Getenv("FCC_BACKUP_PASSPHRASE"),
		ScheduleHour:  envInt("FCC_BACKUP_HOUR", 3),
		RetentionDays: envInt("FCC_BACKUP_RETENTION_DAYS", 30),
	}
	if backupCfg.S3.Region == "" {
		backupCfg.S3.Region = "us-east-1"
	}

	pushCfg := server.PushConfig{
		VAPIDPublicKey:  os.Getenv("FCC_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("FCC_VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("FCC_PUSH_SUBSCRIBER"),
	}

	srv := server.New(db, backupCfg, pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
	} else {
		logger.Info("push notifications disabled, VAPID keys not set")
	}

	// Background tickers: expired tombstones and stale rate limit entries.
	go func() {
		purge := time.NewTicker(time.Minute)
		cleanup := time.NewTicker(time.Hour)
		defer purge.Stop()
		defer cleanup.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-purge.C:
				n, err := srv.EventStore().PurgeDeleted(time.Now().UTC().Add(-undoWindow))
				if err != nil {
					logger.Error("purge deleted events", "error", err)
				} else if n > 0 {
					logger.Debug("purged tombstoned events", "count", n)
				}
			case <-cleanup.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Family Command Center running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
