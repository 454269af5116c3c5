package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"startup-sim/internal/models"
	"startup-sim/internal/repository"

	"github.com/docker/docker/client"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const integrationKeyPrefix = "startup_sim_test:state"

type RedisRepositorySuite struct {
	suite.Suite
	ctx         context.Context
	rdContainer *tcredis.RedisContainer
	redisClient *redis.Client
	repo        repository.StateRepository
}

func (s *RedisRepositorySuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	host, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.repo = repository.NewRedisStateRepository(s.redisClient, integrationKeyPrefix, zap.NewNop())
}

func (s *RedisRepositorySuite) TearDownSuite() {
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.T().Logf("Failed to terminate redis container: %v", err)
		}
	}
}

func (s *RedisRepositorySuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err())
}

func TestRedisRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(RedisRepositorySuite))
}

func sampleDocument() *repository.StateDocument {
	return &repository.StateDocument{
		Simulation: &models.DigitalTwinState{
			IsInitialized:   true,
			CompanyName:     "PlantPal",
			SimulationMonth: 3,
			StartupScore:    58,
			Financials: models.Financials{
				Revenue:    1200,
				Expenses:   6000,
				CashOnHand: 45200,
			},
			Product: models.Product{
				Name:  "PlantPal",
				Stage: models.StagePrototype,
			},
		},
		Snapshots: []models.SimulationSnapshot{
			{ID: "snap-1", Name: "pre-pivot", CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		},
		EventHistory: []models.SurpriseEventHistoryItem{
			{EventID: "ev-1", EventType: models.EventAngelInvestor, MonthOccurred: 2, Outcome: models.OutcomeAccepted},
		},
	}
}

func (s *RedisRepositorySuite) TestSaveAndLoadRoundTrip() {
	t := s.T()
	doc := sampleDocument()

	err := s.repo.Save(s.ctx, "session-rt", doc)
	require.NoError(t, err)
	require.NotZero(t, doc.Version)
	require.False(t, doc.UpdatedAt.IsZero())

	loaded, err := s.repo.Load(s.ctx, "session-rt")
	require.NoError(t, err)
	require.Equal(t, doc.Version, loaded.Version)
	require.Equal(t, doc.Simulation, loaded.Simulation)
	require.Equal(t, doc.Snapshots, loaded.Snapshots)
	require.Equal(t, doc.EventHistory, loaded.EventHistory)
}

func (s *RedisRepositorySuite) TestLoadMissingSessionIsNotFound() {
	t := s.T()

	_, err := s.repo.Load(s.ctx, "never-saved")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func (s *RedisRepositorySuite) TestLoadRejectsUnknownFields() {
	t := s.T()

	key := fmt.Sprintf("%s:%s", integrationKeyPrefix, "session-corrupt")
	require.NoError(t, s.redisClient.Set(s.ctx, key, `{"version":1,"unknownField":true}`, 0).Err())

	_, err := s.repo.Load(s.ctx, "session-corrupt")
	require.Error(t, err)
	require.NotErrorIs(t, err, models.ErrNotFound)
}

func (s *RedisRepositorySuite) TestDelete() {
	t := s.T()

	require.NoError(t, s.repo.Save(s.ctx, "session-del", sampleDocument()))
	require.NoError(t, s.repo.Delete(s.ctx, "session-del"))

	_, err := s.repo.Load(s.ctx, "session-del")
	require.ErrorIs(t, err, models.ErrNotFound)

	// Deleting a key that never existed is not an error.
	require.NoError(t, s.repo.Delete(s.ctx, "session-del"))
}
