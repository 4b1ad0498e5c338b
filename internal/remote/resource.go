package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	maxBodyBytes = 8 << 20 // 8 MiB на ответ
	maxErrSnip   = 256
)

// NewHTTPClient — http.Client с таймаутом и OTEL-транспортом (спаны на каждый вызов хранилища).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Resource — клиент одной REST-коллекции: GET/POST /<name>, PUT/DELETE /<name>/{id}.
// Повторов нет: любой сбой сразу возвращается как *domain.TransportError.
type Resource[T any] struct {
	client *http.Client
	base   *url.URL
	name   string
}

// NewResource — baseURL вида http://host:3000/ или http://host/api/.
func NewResource[T any](client *http.Client, baseURL, name string) (*Resource[T], error) {
	if client == nil {
		client = NewHTTPClient(0)
	}
	name = strings.Trim(name, "/")
	if name == "" {
		return nil, errors.New("remote: empty resource name")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: base url must be absolute, got %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Resource[T]{client: client, base: u, name: name}, nil
}

// Name — имя коллекции (для логов).
func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.do(ctx, opList, http.MethodGet, r.collectionURL(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create — POST тела как есть; пустой ответ даёт нулевое значение T.
func (r *Resource[T]) Create(ctx context.Context, body any) (T, error) {
	var out T
	raw, err := json.Marshal(body)
	if err != nil {
		return out, r.transportErr(opCreate, 0, fmt.Errorf("encode body: %w", err))
	}
	err = r.do(ctx, opCreate, http.MethodPost, r.collectionURL(), raw, &out)
	return out, err
}

// UpdateByID — PUT /<name>/{id}; ключ "id" из тела вырезается всегда,
// запись адресуется только путём запроса.
func (r *Resource[T]) UpdateByID(ctx context.Context, id int64, body any) (T, error) {
	var out T
	raw, err := stripID(body)
	if err != nil {
		return out, r.transportErr(opUpdate, 0, fmt.Errorf("encode body: %w", err))
	}
	err = r.do(ctx, opUpdate, http.MethodPut, r.itemURL(id), raw, &out)
	return out, err
}

func (r *Resource[T]) DeleteByID(ctx context.Context, id int64) error {
	return r.do(ctx, opDelete, http.MethodDelete, r.itemURL(id), nil, nil)
}

func (r *Resource[T]) collectionURL() string {
	return r.base.ResolveReference(&url.URL{Path: r.name}).String()
}

func (r *Resource[T]) itemURL(id int64) string {
	return r.base.ResolveReference(&url.URL{Path: r.name + "/" + strconv.FormatInt(id, 10)}).String()
}

func (r *Resource[T]) do(ctx context.Context, op, method, target string, body []byte, out any) error {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(r.name, op).Observe(time.Since(start).Seconds())
	}()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return r.transportErr(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := ctxmeta.AuthTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return r.transportErr(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snip, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrSnip))
		msg := strings.TrimSpace(string(snip))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return r.transportErr(op, resp.StatusCode, errors.New(msg))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return r.transportErr(op, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return r.transportErr(op, resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

func (r *Resource[T]) transportErr(op string, status int, err error) error {
	return &domain.TransportError{Op: op, Resource: r.name, StatusCode: status, Err: err}
}

// stripID — JSON тела без ключа "id" (если тело — объект).
func stripID(body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return raw, nil
	}
	if _, ok := obj["id"]; !ok {
		return raw, nil
	}
	delete(obj, "id")
	return json.Marshal(obj)
}
