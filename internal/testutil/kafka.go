//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/segmentio/kafka-go"
)

// UniqueTopic — имя топика на тест: base + метка времени с наносекундами.
func UniqueTopic(base string) string {
	stamp := strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
	return base + "-" + stamp
}

// EnsureTopic — создать топик с одной партицией через контроллер и дождаться его в метаданных.
// broker: "host:port", "PLAINTEXT://host:port" или список через запятую (берётся первый).
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := bootstrapAddr(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return waitPartitions(ctx, addr, topic)
}

// ReadInvalidation — прочитать одно событие инвалидации с начала топика.
func ReadInvalidation(ctx context.Context, brokers []string, topic string) (ports.InvalidationEvent, kafka.Message, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     topic + "-reader",
		StartOffset: kafka.FirstOffset,
	})
	defer r.Close()

	msg, err := r.ReadMessage(ctx)
	if err != nil {
		return ports.InvalidationEvent{}, kafka.Message{}, err
	}
	var ev ports.InvalidationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return ports.InvalidationEvent{}, msg, fmt.Errorf("decode event: %w", err)
	}
	return ev, msg, nil
}

func bootstrapAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}

func waitPartitions(ctx context.Context, addr, topic string) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	var lastErr error
	for {
		c, err := kafka.DialContext(ctx, "tcp", addr)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("topic %q not ready: %v", topic, lastErr)
		case <-ticker.C:
		}
	}
}
