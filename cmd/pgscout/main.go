package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/pgscout/internal/awsauth"
	"codeberg.org/mutker/pgscout/internal/catalog"
	"codeberg.org/mutker/pgscout/internal/config"
	"codeberg.org/mutker/pgscout/internal/errors"
	"codeberg.org/mutker/pgscout/internal/logger"
	"codeberg.org/mutker/pgscout/internal/pid"
	"codeberg.org/mutker/pgscout/internal/probe"
	"codeberg.org/mutker/pgscout/internal/remote"
	"codeberg.org/mutker/pgscout/internal/resolver"
	"codeberg.org/mutker/pgscout/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	connectTimeout = 10 * time.Second
	resolveTimeout = 30 * time.Second
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		logger.SetLevel(cfg.LogLevel)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write pid file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove pid file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func run(ctx context.Context) error {
	errFactory := errors.New()

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return errFactory.Wrap(errors.ErrConnectFailed, err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, connectTimeout)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		return errFactory.Wrap(errors.ErrConnectFailed, err)
	}

	snap, err := probe.Detect(ctx, db)
	if err != nil {
		return err
	}

	metrics := catalog.Build(db)

	storeCfg := store.DefaultConfig()
	storeCfg.Enabled = cfg.Store
	storeCfg.DBPath = cfg.Database
	recorder, err := store.NewService(storeCfg, logger.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close sample store")
		}
	}()

	pusher, err := buildPusher(ctx)
	if err != nil {
		return err
	}

	return loop(ctx, metrics, snap, recorder, pusher)
}

// buildPusher assembles the remote pusher, deciding whether its requests
// are signed. A missing push URL disables pushing entirely.
func buildPusher(ctx context.Context) (*remote.Pusher, error) {
	if cfg.PushURL == "" {
		return nil, nil
	}

	authCfg := awsauth.Config{
		Enabled: cfg.SigV4,
		Region:  cfg.AWSRegion,
		Strict:  cfg.Strict,
	}

	var provider aws.CredentialsProvider
	if authCfg.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region()))
		if err != nil {
			if authCfg.Strict {
				return nil, errors.New().Wrap(errors.ErrCredentialRetrieval, err)
			}
			logger.Warn().Err(err).Msg("Failed to load AWS config, pushing unsigned")
		} else {
			provider = awsCfg.Credentials
		}
	}

	decision, err := awsauth.NewSelector().Select(ctx, authCfg, provider)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Bool("auth_enabled", decision.AuthEnabled).
		Str("region", decision.Region).
		Str("reason", decision.Reason).
		Msg("Push authentication decided")

	return remote.NewPusher(cfg.PushURL, awsauth.Transport(decision, nil)), nil
}

func loop(
	ctx context.Context,
	metrics []resolver.Metric,
	snap probe.Snapshot,
	recorder store.Recorder,
	pusher *remote.Pusher,
) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass right away rather than one full interval in
	collect(ctx, metrics, snap, recorder, pusher)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			collect(ctx, metrics, snap, recorder, pusher)
		}
	}
}

func collect(
	ctx context.Context,
	metrics []resolver.Metric,
	snap probe.Snapshot,
	recorder store.Recorder,
	pusher *remote.Pusher,
) {
	resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	now := time.Now()
	pushSamples := make([]remote.Sample, 0, len(metrics))

	for _, metric := range metrics {
		result, err := resolver.Resolve(resolveCtx, metric, snap)
		if err != nil {
			// Exhaustion carries the full attempt trace for diagnosis;
			// either way this collection pass carries on
			if resolver.IsExhausted(err) {
				logger.Error().Str("metric", metric.Name).Err(err).Msg("Resolution exhausted")
			} else {
				logger.Warn().Str("metric", metric.Name).Err(err).Msg("Resolution aborted")
			}

			continue
		}

		logger.Info().
			Str("metric", result.Metric).
			Float64("value", result.Value).
			Str("strategy", result.StrategyUsed).
			Msg("Resolved metric")

		if err := recorder.Record(resolveCtx, &store.Sample{
			Timestamp: now,
			Metric:    result.Metric,
			Value:     result.Value,
			Strategy:  result.StrategyUsed,
		}); err != nil {
			logger.Error().Err(err).Msg("Failed to record sample")
		}

		pushSamples = append(pushSamples, remote.Sample{
			Name:      result.Metric,
			Value:     result.Value,
			Strategy:  result.StrategyUsed,
			Timestamp: now,
		})
	}

	if pusher != nil {
		if err := pusher.Push(resolveCtx, pushSamples); err != nil {
			logger.Error().Err(err).Msg("Failed to push samples")
		}
	}
}
