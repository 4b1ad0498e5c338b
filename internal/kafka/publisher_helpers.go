package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// encodeEvent — ключ сообщения = id заказа, тело = JSON события, заголовок op.
func encodeEvent(ev ports.InvalidationEvent) (kafka.Message, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value:   raw,
		Time:    ev.At,
		Headers: []kafka.Header{{Key: "op", Value: []byte(ev.Op)}},
	}, nil
}

// publish — запись одного события; после maxAttempts неудач событие теряется (с метрикой).
func (p *Publisher) publish(ctx context.Context, ev ports.InvalidationEvent) {
	msg, err := encodeEvent(ev)
	if err != nil {
		metrics.EventsFailed.WithLabelValues(p.topic, "encode").Inc()
		p.log.Errorf(ctx, "encode event op=%s id=%d: %v", ev.Op, ev.OrderID, err)
		return
	}

	retry := p.retryInitial
	for attempt := 1; ; attempt++ {
		wctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
		err := p.writer.WriteMessages(wctx, msg)
		cancel()

		if err == nil {
			metrics.EventsPublished.WithLabelValues(p.topic).Inc()
			return
		}
		// Если контекст отменен -> выходим
		if ctx.Err() != nil {
			return
		}
		if attempt >= p.maxAttempts {
			metrics.EventsFailed.WithLabelValues(p.topic, "write").Inc()
			p.log.Errorf(ctx, "publish failed op=%s id=%d after %d attempts: %v", ev.Op, ev.OrderID, attempt, err)
			return
		}

		sleep := p.withJitterEqual(retry)
		p.log.Warnf(ctx, "publish failed: %v (will retry in %s)", err, sleep)
		if !p.sleepWithBackoff(ctx, sleep) {
			return
		}
		retry = p.nextBackoff(retry)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (p *Publisher) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учетом retryMax.
func (p *Publisher) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > p.retryMax {
		return p.retryMax
	}
	return current
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайная.
func (p *Publisher) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(p.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}
