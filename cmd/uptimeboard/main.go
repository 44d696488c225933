package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/sirupsen/logrus"
    "uptimeboard/internal/config"
    "uptimeboard/internal/database"
    "uptimeboard/internal/gateway"
    "uptimeboard/internal/metrics"
    "uptimeboard/internal/seed"
    "uptimeboard/internal/web"
)

func main() {
    configFile := flag.String("config", "", "Configuration file path (defaults apply when empty)")
    version := flag.Bool("version", false, "Show version information")
    seedData := flag.Bool("seed", false, "Load the sample dataset at startup")
    seedUser := flag.String("seed-user", "", "User id to own the sample dataset (defaults to the anonymous identity)")
    flag.Parse()

    if *version {
        fmt.Printf("Uptimeboard %s\nCommit: %s\nBuilt: %s\n", web.Version, web.GitCommit, web.BuildTime)
        os.Exit(0)
    }

    cfg := config.Default()
    if *configFile != "" {
        var err error
        cfg, err = config.Load(*configFile)
        if err != nil {
            logrus.Fatalf("Failed to load config: %v", err)
        }
    }

    setupLogging(cfg.Logging)

    logrus.WithFields(logrus.Fields{
        "config_file": *configFile,
        "port":        cfg.Server.Port,
        "database":    cfg.Database.Path,
    }).Info("Starting uptimeboard")

    store, err := database.NewBoltStore(cfg.Database.Path, cfg.Database.OpenTimeout)
    if err != nil {
        // The gateway serves sample data while the store is absent.
        logrus.WithError(err).Error("Failed to open database, running in degraded mode")
    }

    var gwStore database.Store
    if store != nil {
        gwStore = store
        defer store.Close()
    }

    collector := metrics.NewCollector(nil)
    gw := gateway.New(gwStore, database.ContextIdentity{},
        gateway.WithAnonymousIdentity(database.Identity{ID: cfg.Identity.AnonymousID}),
        gateway.WithProbeTimeout(cfg.Gateway.ProbeTimeout),
        gateway.WithOperationTimeout(cfg.Gateway.OperationTimeout),
        gateway.WithDefaultEventLimit(cfg.Gateway.DefaultEventLimit),
        gateway.WithObserver(collector),
    )
    collector.SetSource(gw)

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    if cfg.Seed.OnStartup || *seedData {
        seedCtx := ctx
        if *seedUser != "" {
            seedCtx = database.WithIdentity(ctx, database.Identity{ID: *seedUser})
        }
        result, err := seed.Load(seedCtx, gw, time.Now())
        if err != nil {
            logrus.WithError(err).Error("Failed to seed sample data")
        } else {
            logrus.WithFields(logrus.Fields{"seeded": result.Seeded, "reason": result.Reason}).Info("Sample data load finished")
        }
    }

    if store != nil && cfg.Database.CompactInterval > 0 {
        go compactRoutine(ctx, store, cfg.Database.CompactInterval)
    }

    webServer := web.NewServer(cfg, gw, gwStore, collector)
    if err := webServer.Start(ctx); err != nil {
        logrus.Fatalf("Failed to start web server: %v", err)
    }

    sigChan := make(chan os.Signal, 1)
    signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

    sig := <-sigChan
    logrus.WithField("signal", sig).Info("Received shutdown signal")

    cancel()

    shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer shutdownCancel()
    if err := webServer.Stop(shutdownCtx); err != nil {
        logrus.WithError(err).Warn("Web server did not shut down cleanly")
    }
    logrus.Info("Shutdown complete")
}

func compactRoutine(ctx context.Context, store *database.BoltStore, interval time.Duration) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            start := time.Now()
            if err := store.Compact(ctx); err != nil {
                logrus.WithError(err).Error("Failed to compact database")
                continue
            }
            logrus.WithField("duration", time.Since(start)).Info("Database compacted")
        }
    }
}

func setupLogging(cfg config.LoggingConfig) {
    level, err := logrus.ParseLevel(cfg.Level)
    if err != nil {
        level = logrus.InfoLevel
    }
    logrus.SetLevel(level)

    if cfg.Format == "json" {
        logrus.SetFormatter(&logrus.JSONFormatter{})
    } else {
        logrus.SetFormatter(&logrus.TextFormatter{
            FullTimestamp: true,
        })
    }
}
