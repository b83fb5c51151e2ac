package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"

	postgresPort     = "5432/tcp"
	postgresImage    = "postgres"
	postgresTag      = "16-alpine"
	postgresUser     = "rps"
	postgresPassword = "rps"
	postgresDB       = "rps"

	natsPort  = "4222/tcp"
	natsImage = "nats"
	natsTag   = "2.10-alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage  *redis.Client
	Postgres *pgxpool.Pool
	NATSURL  string
}

// New starts a Redis container.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, st, pool, resource := start(t, &dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
		Env:        []string{},
	})

	redisHost := resource.GetHostPort(redisPort)

	var redisClient *redis.Client
	retry(t, pool, resource, "redis", func() error {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisHost,
		})
		return redisClient.Ping(ctx).Err()
	})

	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	st.Storage = redisClient

	return ctx, st
}

// NewPostgres starts a PostgreSQL container.
func NewPostgres(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, st, pool, resource := start(t, &dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=" + postgresUser,
			"POSTGRES_PASSWORD=" + postgresPassword,
			"POSTGRES_DB=" + postgresDB,
		},
	})

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		postgresUser, postgresPassword, resource.GetHostPort(postgresPort), postgresDB)

	var pgPool *pgxpool.Pool
	retry(t, pool, resource, "postgres", func() error {
		var err error
		if pgPool, err = pgxpool.New(ctx, dsn); err != nil {
			return err
		}
		if err = pgPool.Ping(ctx); err != nil {
			pgPool.Close()
			return err
		}
		return nil
	})

	t.Cleanup(pgPool.Close)

	st.Postgres = pgPool

	return ctx, st
}

// NewNATS starts a NATS server container.
func NewNATS(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, st, pool, resource := start(t, &dockertest.RunOptions{
		Repository: natsImage,
		Tag:        natsTag,
	})

	url := "nats://" + resource.GetHostPort(natsPort)

	retry(t, pool, resource, "nats", func() error {
		conn, err := nats.Connect(url)
		if err != nil {
			return err
		}
		conn.Close()
		return nil
	})

	st.NATSURL = url

	return ctx, st
}

func start(t *testing.T, opts *dockertest.RunOptions) (context.Context, *Suite, *dockertest.Pool, *dockertest.Resource) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start resource: %v", err)
	}

	// never returns error
	_ = resource.Expire(expireDuration) // Tell docker to hard kill the container in 120 seconds

	t.Cleanup(func() {
		t.Helper()

		if err = pool.Purge(resource); err != nil {
			t.Fatalf("could not purge resource: %v", err)
		}
	})

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	pool.MaxWait = maxWaitDuration

	return ctx, &Suite{T: t, Logger: logger}, pool, resource
}

func retry(t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource, name string, connect func() error) {
	t.Helper()

	// the container is purged by the cleanup registered in start
	if err := pool.Retry(connect); err != nil {
		t.Fatalf("could not connect to %s in %s: %v", name, resource.Container.Name, err)
	}
}
