package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"cloudinary-gateway/internal/config"
	domain "cloudinary-gateway/internal/domain/media"
	"cloudinary-gateway/internal/infrastructure/cloudinary"
	"cloudinary-gateway/internal/infrastructure/logger"
	"cloudinary-gateway/internal/infrastructure/queue"
	"cloudinary-gateway/internal/interfaces/httpserver"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURI)
	if err != nil {
		log.Fatal().Err(err).Msg("parse redis URI")
	}

	rdb, err := connectRedis(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis broker")
	}
	defer rdb.Close()

	cloudinaryClient := cloudinary.NewClient(cfg, log)

	producer := queue.NewProducer(redisOpt, cfg, log)
	defer producer.Close()

	worker := queue.NewWorker(redisOpt, cfg, cloudinaryClient, log)
	mediaService := domain.NewService(cfg, cloudinaryClient, producer, log)
	httpServer := httpserver.New(cfg, log, mediaService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// connectRedis verifies the broker is reachable before the worker and
// producer start depending on it.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURI)
	if err != nil {
		return nil, fmt.Errorf("parse redis URI: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("connected to redis broker")
	return client, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
