package main

import (
	"context"
	"net/http"

	_ "github.com/streetmuse/freelance-platform/docs" // swagger docs
	"github.com/streetmuse/freelance-platform/internal/api"
	"github.com/streetmuse/freelance-platform/internal/infrastructure/config"
	mongodb "github.com/streetmuse/freelance-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/streetmuse/freelance-platform/internal/infrastructure/db/redis"
	"github.com/streetmuse/freelance-platform/pkg/logger"
)

// @title Freelance Platform API
// @version 1.0
// @description Two-sided marketplace API coordinating job postings and freelancer proposals.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.NewJobRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("job indexes failed")
	}
	if err := mongodb.NewProposalRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("proposal indexes failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(client, db, rdb, cfg.JWTSecret, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
