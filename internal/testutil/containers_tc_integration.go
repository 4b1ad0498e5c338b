//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"
)

// общий логгер жизненного цикла контейнеров
var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// StopFunc — остановка контейнера вместе с клиентами поверх него.
type StopFunc func(context.Context) error

func shortID(c tc.Container) string {
	id := c.GetContainerID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// lifecycle — одна строка лога на каждый этап жизни контейнера.
func lifecycle(l *log.Logger) tc.CustomizeRequestOption {
	stage := func(name string) []tc.ContainerHook {
		return []tc.ContainerHook{func(_ context.Context, c tc.Container) error {
			l.Printf("%-10s id=%s", name, shortID(c))
			return nil
		}}
	}
	return tc.WithLifecycleHooks(tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{func(_ context.Context, req tc.ContainerRequest) error {
			l.Printf("%-10s image=%s", "create", req.Image)
			return nil
		}},
		PostStarts:     stage("started"),
		PostReadies:    stage("ready"),
		PreTerminates:  stage("terminate"),
		PostTerminates: stage("gone"),
	})
}

// PGContainer — Postgres эталонного хранилища и пул к нему.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — чистая база printshop без схемы; миграции накатывает вызывающий.
func StartPostgresTC(ctx context.Context) (*PGContainer, StopFunc, error) {
	pg, err := postgres.Run(ctx, postgresImage,
		lifecycle(tcLogger),
		postgres.WithDatabase("printshop"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}
	fail := func(stage string, err error) (*PGContainer, StopFunc, error) {
		_ = tc.TerminateContainer(pg)
		return nil, nil, fmt.Errorf("%s: %w", stage, err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail("conn string", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fail("parse dsn", err)
	}
	cfg.MaxConns = 5
	cfg.ConnConfig.RuntimeParams["application_name"] = "printshop-it"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fail("new pool", err)
	}

	stop := func(c context.Context) error {
		pool.Close()
		return pg.Terminate(c)
	}
	return &PGContainer{Container: pg, Pool: pool, DSN: dsn}, stop, nil
}

// RedisEnv — Redis для хранилища состояния сессий.
type RedisEnv struct {
	Container *tcredis.RedisContainer
	URL       string // redis://host:port
}

func StartRedisTC(ctx context.Context) (*RedisEnv, StopFunc, error) {
	rc, err := tcredis.Run(ctx, redisImage, lifecycle(tcLogger))
	if err != nil {
		return nil, nil, fmt.Errorf("run redis: %w", err)
	}

	url, err := rc.ConnectionString(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rc)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(rc) }
	return &RedisEnv{Container: rc, URL: url}, stop, nil
}

// KafkaEnv — брокер для событий инвалидации (Redpanda совместима с протоколом Kafka).
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string // префикс; тесты берут UniqueTopic(BaseTopic+...)
}

func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, StopFunc, error) {
	rp, err := redpanda.Run(ctx, redpandaImage,
		lifecycle(tcLogger),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(rp) }
	return &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic}, stop, nil
}
