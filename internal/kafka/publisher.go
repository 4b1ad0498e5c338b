package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Publisher подписывается на события координатора.
var _ ports.InvalidationSubscriber = (*Publisher)(nil)

// writer — минимальный контракт над kafka.Writer,
// чтобы легко подменять его моками в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher — пересылка событий инвалидации в топик.
// OnInvalidate только ставит событие в буфер; запись в брокер идёт в Run.
type Publisher struct {
	writer       writer
	topic        string
	log          ports.Logger
	events       chan ports.InvalidationEvent
	writeTimeout time.Duration
	retryInitial time.Duration
	retryMax     time.Duration
	maxAttempts  int
	jitterRand   *rand.Rand
	closeOnce    sync.Once
}

// NewPublisher — конструктор с параметрами по умолчанию для незаданных полей.
func NewPublisher(cfg *PublisherConfig, log ports.Logger) *Publisher {
	return newPublisher(cfg.newWriter(), cfg, log)
}

func newPublisher(w writer, cfg *PublisherConfig, log ports.Logger) *Publisher {
	buf := cfg.BufferSize
	if buf <= 0 {
		buf = 256
	}

	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}

	rInit := cfg.RetryInitial
	if rInit <= 0 {
		rInit = 200 * time.Millisecond
	}

	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 5 * time.Second
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}

	return &Publisher{
		writer:       w,
		topic:        cfg.Topic,
		log:          log,
		events:       make(chan ports.InvalidationEvent, buf),
		writeTimeout: wt,
		retryInitial: rInit,
		retryMax:     rMax,
		maxAttempts:  attempts,
		// jitterRand — источник случайности, чтобы рассинхронизировать экспоненциальный backoff.
		jitterRand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// OnInvalidate — не блокирует мутацию: при переполненном буфере событие отбрасывается.
func (p *Publisher) OnInvalidate(ctx context.Context, ev ports.InvalidationEvent) {
	select {
	case p.events <- ev:
	default:
		metrics.EventsFailed.WithLabelValues(p.topic, "dropped").Inc()
		p.log.Warnf(ctx, "event buffer full, dropped op=%s id=%d", ev.Op, ev.OrderID)
	}
}

// Run — основной цикл: берём событие из буфера и пишем в топик
// с экспоненциальным backoff (equal-jitter) между попытками.
func (p *Publisher) Run(ctx context.Context) error {
	p.log.Infof(ctx, "kafka publisher started topic=%s", p.topic)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.events:
			p.publish(ctx, ev)
		}
	}
}

// Close — закрывает writer. Вызывается при остановке приложения.
func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
