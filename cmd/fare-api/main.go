// README: Entry point; loads config and the fare model, wires optional backing services, serves HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farecast/internal/config"
	httptransport "farecast/internal/http"
	"farecast/internal/infra"
	"farecast/internal/logging"
	"farecast/internal/maps"
	"farecast/internal/modules/prediction"
	"farecast/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var objects prediction.ObjectFetcher
	if cfg.S3.Endpoint != "" {
		store, err := infra.NewObjectStore(cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("object store init")
		}
		objects = store
	}

	model, err := prediction.NewLoader(objects).Load(ctx, cfg.Model.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Model.Path).Msg("model load")
	}
	log.Info().Str("path", cfg.Model.Path).Str("kind", string(model.Kind)).Msg("model loaded")

	deps := pricing.Deps{Logger: log}

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init")
		}
		defer dbPool.Close()
		deps.Rates = pricing.NewStore(dbPool)
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init")
		}
		defer redisClient.Close()
		deps.Surge = pricing.NewSurgeCache(redisClient)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		writer := infra.NewEventWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()
		deps.Events = pricing.NewKafkaPublisher(writer)
	}

	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("maps init")
		}
		deps.Routes = routes
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Prediction: prediction.NewService(model),
		Pricing:    pricing.NewService(deps),
		Logger:     log,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, log)
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("http server")
	}
	log.Info().Msg("shutdown complete")
}
