//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	routemapEvents "github.com/Kilat-Pet-Delivery/service-routemap/internal/events"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing/here"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/database"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/events"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// routemapStack holds wired-up route map service components.
type routemapStack struct {
	Sessions        *application.SessionService
	Journeys        *application.JourneyService
	Areas           *application.AreaService
	Consumer        *routemapEvents.RouteRequestConsumer
	Routing         *httptest.Server
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the
// SQL migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_routemap",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_routemap",
		SSLMode:  "disable",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbConfig.DatabaseURL(), "migrations", zap.NewNop()))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicRouteMapEvents, events.TopicRouteMapRequests)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// newRoutingServer serves the recorded calculateroute response.
func newRoutingServer(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile("internal/domain/route/testdata/calculateroute.json")
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
}

// setupRoutemapStack wires up the full route map service stack.
func setupRoutemapStack(t *testing.T, db *gorm.DB, brokers []string) *routemapStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	routingServer := newRoutingServer(t)
	provider, err := here.NewClient(here.Config{
		AppID:   "test-app",
		AppCode: "test-code",
		BaseURL: routingServer.URL,
		Timeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)

	producer := kafka.NewProducer(brokers, logger)
	journeySvc := application.NewJourneyService(repository.NewGormJourneyRepository(db), producer, logger)
	areaSvc := application.NewAreaService(repository.NewGormAreaRepository(db), producer, logger)
	sessionSvc := application.NewSessionService(
		repository.NewMemorySessionStore(),
		application.NewRouteService(provider, 5*time.Second, logger),
		journeySvc,
		application.MapSettings{
			Center:      geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
			Zoom:        13,
			Viewport:    mapview.Viewport{Width: 800, Height: 600, PixelRatio: 1},
			Mode:        "fastest;car",
			Origin:      geo.Coordinate{Lat: 12.8448, Lng: 77.6632},
			Destination: geo.Coordinate{Lat: 12.9343, Lng: 77.6112},
		},
		logger,
	)

	groupID := fmt.Sprintf("test-routemap-%s", uuid.New().String()[:8])
	consumer := routemapEvents.NewRouteRequestConsumer(brokers, groupID, sessionSvc, logger)

	return &routemapStack{
		Sessions:        sessionSvc,
		Journeys:        journeySvc,
		Areas:           areaSvc,
		Consumer:        consumer,
		Routing:         routingServer,
		CleanupProducer: func() { _ = producer.Close() },
	}
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

// waitForJourneyCount polls the journeys table until the session has the expected number of rows.
func waitForJourneyCount(t *testing.T, db *gorm.DB, sessionID uuid.UUID, expected int64, timeout time.Duration) []repository.JourneyModel {
	t.Helper()
	var result []repository.JourneyModel
	require.Eventually(t, func() bool {
		var models []repository.JourneyModel
		if err := db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&models).Error; err != nil {
			return false
		}
		if int64(len(models)) == expected {
			result = models
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "session did not reach %d journeys", expected)
	return result
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
