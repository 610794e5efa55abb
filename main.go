package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/greenfelt/holdem/config"
	"github.com/greenfelt/holdem/domain"
	"github.com/greenfelt/holdem/events"
	"github.com/greenfelt/holdem/server"
)

func main() {
	cfg := config.Load()

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	blinds := domain.Blinds{Small: cfg.SmallBlind, Big: cfg.BigBlind}
	table := domain.NewTable(blinds, domain.StatusNormal, logger)

	// Pre-seat any configured players, in order from seat zero.
	for seat, name := range cfg.Players {
		player := domain.NewPlayer(name, cfg.StartingBank)
		if err := table.AddPlayer(player, seat); err != nil {
			logger.Fatal("failed to seat player",
				zap.String("player", name),
				zap.Int("seat", seat),
				zap.Error(err),
			)
		}
	}

	store := events.NewInMemoryStore()

	s := server.New(table, store, logger)

	logger.Info("starting hold'em table",
		zap.Stringer("blinds", blinds),
		zap.String("addr", cfg.ListenAddr),
	)

	if err := s.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
