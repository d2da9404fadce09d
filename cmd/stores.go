package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/care-connect/internal/config"
	"github.com/Shivanand-hulikatti/care-connect/internal/database"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository/memory"
	"github.com/Shivanand-hulikatti/care-connect/internal/repository/mongodb"
	"github.com/Shivanand-hulikatti/care-connect/internal/service"
)

// stores bundles the repositories of the selected backend with the function
// that releases its connection.
type stores struct {
	users    service.UserStore
	places   service.PlaceStore
	bookings service.BookingStore
	close    func(ctx context.Context) error
}

func openStores(ctx context.Context, log *slog.Logger, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, log, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("connected to postgres", slog.String("host", cfg.DB.Host), slog.String("db", cfg.DB.DBName))
		return &stores{
			users:    repository.NewUserRepository(pool),
			places:   repository.NewPlaceRepository(pool),
			bookings: repository.NewBookingRepository(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongodb", slog.String("db", cfg.Mongo.Database))
		return &stores{
			users:    mongodb.NewUserRepository(db),
			places:   mongodb.NewPlaceRepository(db),
			bookings: mongodb.NewBookingRepository(db),
			close:    client.Disconnect,
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		s := memory.New()
		return &stores{
			users:    s.Users(),
			places:   s.Places(),
			bookings: s.Bookings(),
			close:    func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
}
