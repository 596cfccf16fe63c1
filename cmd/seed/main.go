// Command seed bulk-loads locations and transportations from CSV files through
// the same application services the HTTP API uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/cache"
	"github.com/transit-planner/service-route/internal/common/database"
	"github.com/transit-planner/service-route/internal/common/kafka"
	"github.com/transit-planner/service-route/internal/common/logger"
	"github.com/transit-planner/service-route/internal/config"
	"github.com/transit-planner/service-route/internal/repository"
)

type services struct {
	locations       *application.LocationService
	transportations *application.TransportationService
	log             *zap.Logger
	close           func()
}

func setup(ctx context.Context) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-route-seed")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}, log)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
	if err != nil {
		return nil, err
	}
	memo := cache.NewMemoizer(cache.NewRedisStore(redisClient, "service-route"), cfg.CacheTTL, log)
	producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)

	locationRepo := repository.NewCachedLocationRepository(repository.NewGormLocationRepository(db), memo)
	transportationRepo := repository.NewCachedTransportationRepository(repository.NewGormTransportationRepository(db), memo)
	source := "service-route/seed"

	return &services{
		locations:       application.NewLocationService(locationRepo, transportationRepo, producer, source, log),
		transportations: application.NewTransportationService(transportationRepo, locationRepo, producer, source, log),
		log:             log,
		close: func() {
			_ = producer.Close()
			_ = redisClient.Close()
			_ = log.Sync()
		},
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Bulk-load the transport network from CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLocationsCmd(), newTransportationsCmd())
	return root
}

func newLocationsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Create locations from a CSV with name,country,city,location_code columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := parseLocations(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := setup(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			created := 0
			for i, row := range rows {
				if _, err := svc.locations.CreateLocation(ctx, row); err != nil {
					svc.log.Warn("skipping location row", zap.Int("row", i+2), zap.String("code", row.Code), zap.Error(err))
					continue
				}
				created++
			}
			svc.log.Info("locations seeded", zap.Int("created", created), zap.Int("rows", len(rows)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the locations CSV")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTransportationsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "transportations",
		Short: "Create legs from a CSV with origin_code,destination_code,transportation_type,operating_days columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := parseTransportations(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := setup(ctx)
			if err != nil {
				return err
			}
			defer svc.close()

			created := 0
			for i, row := range rows {
				if _, err := svc.transportations.CreateTransportation(ctx, row); err != nil {
					svc.log.Warn("skipping transportation row",
						zap.Int("row", i+2),
						zap.String("origin", row.OriginCode),
						zap.String("destination", row.DestinationCode),
						zap.Error(err),
					)
					continue
				}
				created++
			}
			svc.log.Info("transportations seeded", zap.Int("created", created), zap.Int("rows", len(rows)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the transportations CSV")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}
