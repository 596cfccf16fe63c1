//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/transit-planner/service-route/internal/application"
	"github.com/transit-planner/service-route/internal/common/cache"
	"github.com/transit-planner/service-route/internal/common/database"
	"github.com/transit-planner/service-route/internal/common/kafka"
	"github.com/transit-planner/service-route/internal/domain/route"
	"github.com/transit-planner/service-route/internal/events"
	"github.com/transit-planner/service-route/internal/repository"
)

const cacheNamespace = "service-route"

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	Redis        *redis.Client
	KafkaBrokers []string
	Cleanup      func()
}

// routeStack holds wired-up route service components.
type routeStack struct {
	Locations       *application.LocationService
	Transportations *application.TransportationService
	Routes          *application.RouteService
	LocationRepo    *repository.CachedLocationRepository
	LegRepo         *repository.CachedTransportationRepository
	CleanupProducer func()
}

// setupContainers starts PostgreSQL, Redis and Kafka testcontainers and applies the migrations.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("test_route"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pgConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_route",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = database.Connect(pgConfig, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(pgConfig.DatabaseURL(), "migrations", logger))

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")
	redisURL, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	redisOpts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	redisClient, err := cache.NewRedisClient(ctx, redisOpts.Addr, redisOpts.Password, redisOpts.DB)
	require.NoError(t, err)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, events.TopicNetworkEvents)

	cleanup := func() {
		_ = redisClient.Close()
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		Redis:        redisClient,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupRouteStack wires up the full route service stack on the given infrastructure.
func setupRouteStack(t *testing.T, infra *testInfra, source string) *routeStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	memo := cache.NewMemoizer(cache.NewRedisStore(infra.Redis, cacheNamespace), time.Minute, logger)
	locationRepo := repository.NewCachedLocationRepository(repository.NewGormLocationRepository(infra.DB), memo)
	legRepo := repository.NewCachedTransportationRepository(repository.NewGormTransportationRepository(infra.DB), memo)
	producer := kafka.NewProducer(infra.KafkaBrokers, logger)

	return &routeStack{
		Locations:       application.NewLocationService(locationRepo, legRepo, producer, source, logger),
		Transportations: application.NewTransportationService(legRepo, locationRepo, producer, source, logger),
		Routes: application.NewRouteService(locationRepo, legRepo, route.NewDepthFirstRouteFinder(),
			application.RouteServiceConfig{Zone: time.UTC}, logger),
		LocationRepo:    locationRepo,
		LegRepo:         legRepo,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedLocations creates one location per code; codes map to countries.
func seedLocations(t *testing.T, stack *routeStack, countries map[string]string) {
	t.Helper()
	for code, country := range countries {
		_, err := stack.Locations.CreateLocation(context.Background(), application.LocationRequest{
			Name: code + " name", Country: country, City: code + " city", Code: code,
		})
		require.NoError(t, err, "failed to seed location %s", code)
	}
}

// seedLeg creates a leg and returns its ID.
func seedLeg(t *testing.T, stack *routeStack, from, to, tt string, days ...int) uuid.UUID {
	t.Helper()
	dto, err := stack.Transportations.CreateTransportation(context.Background(), application.TransportationRequest{
		OriginCode: from, DestinationCode: to, TransportationType: tt, OperatingDays: days,
	})
	require.NoError(t, err, "failed to seed leg %s->%s", from, to)
	return dto.ID
}

// cacheKeys lists the Redis keys under the service namespace matching pattern.
func cacheKeys(t *testing.T, client *redis.Client, pattern string) []string {
	t.Helper()
	keys, err := client.Keys(context.Background(), cacheNamespace+":"+pattern).Result()
	require.NoError(t, err)
	return keys
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
