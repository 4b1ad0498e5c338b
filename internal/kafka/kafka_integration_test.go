//go:build integration

package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ikafka "github.com/Gunvolt24/printshop_console/internal/kafka"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/internal/testutil"
	"github.com/Gunvolt24/printshop_console/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// Событие инвалидации доходит до топика и читается обычным consumer-ом
func TestKafka_PublishInvalidation_TC(t *testing.T) {
	// длинный контекст только на старт контейнеров
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "orders-invalidation")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	// короткий контекст на сам тест
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topic := testutil.UniqueTopic(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	pub := ikafka.NewPublisher(&ikafka.PublisherConfig{
		Brokers:      kf.Brokers,
		Topic:        topic,
		WriteTimeout: 10 * time.Second,
		RetryInitial: 200 * time.Millisecond,
		RetryMax:     2 * time.Second,
	}, logg)
	t.Cleanup(func() { _ = pub.Close() })

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = pub.Run(runCtx) }()

	at := time.Now().UTC().Truncate(time.Second)
	pub.OnInvalidate(ctx, ports.InvalidationEvent{Op: ports.OpDelete, OrderID: 42, At: at})

	ev, msg, err := testutil.ReadInvalidation(ctx, kf.Brokers, topic)
	require.NoError(t, err)
	require.Equal(t, "42", string(msg.Key))
	require.Equal(t, ports.OpDelete, ev.Op)
	require.Equal(t, int64(42), ev.OrderID)
	require.True(t, at.Equal(ev.At))
}
