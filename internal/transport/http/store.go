package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// StoreHandler — эталонное REST-хранилище: коллекции servicios и login.
type StoreHandler struct {
	orders  ports.OrderRepository
	creds   ports.CredentialRepository
	log     ports.Logger
	timeout time.Duration
}

func NewStoreHandler(orders ports.OrderRepository, creds ports.CredentialRepository, log ports.Logger, timeout time.Duration) *StoreHandler {
	return &StoreHandler{orders: orders, creds: creds, log: log, timeout: timeout}
}

func NewStoreRouter(h *StoreHandler, otelServiceName string) *gin.Engine {
	r := gin.New()
	installFallbacks(r)
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/servicios", h.listOrders)
	r.POST("/servicios", h.createOrder)
	r.PUT("/servicios/:id", h.updateOrder)
	r.DELETE("/servicios/:id", h.deleteOrder)

	r.GET("/login", h.listCredentials)
	r.POST("/login", h.createCredential)

	return r
}

// orderBody — шесть полей заказа; числа принимаются и как JSON-числа, и как строки.
type orderBody struct {
	Nombre      string          `json:"nombre"`
	Cantidad    int             `json:"cantidad"`
	Descripcion string          `json:"descripcion"`
	Estado      string          `json:"estado"`
	Total       decimal.Decimal `json:"total"`
	Acuenta     decimal.Decimal `json:"acuenta"`
}

func (b *orderBody) fields() (domain.Fields, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(b.Nombre) == "" {
		errs["nombre"] = "nombre обязателен"
	}
	if strings.TrimSpace(b.Descripcion) == "" {
		errs["descripcion"] = "descripcion обязателен"
	}
	estado, ok := domain.ParseEstado(b.Estado)
	if !ok {
		errs["estado"] = "estado: недопустимое значение " + b.Estado
	}
	if len(errs) > 0 {
		return domain.Fields{}, &domain.ValidationError{Fields: errs}
	}
	return domain.Fields{
		Nombre:      b.Nombre,
		Cantidad:    b.Cantidad,
		Descripcion: b.Descripcion,
		Estado:      estado,
		Total:       b.Total,
		Acuenta:     b.Acuenta,
	}, nil
}

func (h *StoreHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *StoreHandler) listOrders(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeError(c, h.log, "list servicios", err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *StoreHandler) createOrder(c *gin.Context) {
	var body orderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	fields, err := body.fields()
	if err != nil {
		writeError(c, h.log, "create servicio", err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.orders.Create(ctx, fields)
	if err != nil {
		writeError(c, h.log, "create servicio", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StoreHandler) updateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body orderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	fields, err := body.fields()
	if err != nil {
		writeError(c, h.log, "update servicio", err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	updated, err := h.orders.Update(ctx, id, fields)
	if err != nil {
		writeError(c, h.log, "update servicio", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *StoreHandler) deleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.orders.Delete(ctx, id); err != nil {
		writeError(c, h.log, "delete servicio", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StoreHandler) listCredentials(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	creds, err := h.creds.List(ctx)
	if err != nil {
		writeError(c, h.log, "list login", err)
		return
	}
	if creds == nil {
		creds = []domain.Credential{}
	}
	c.JSON(http.StatusOK, creds)
}

func (h *StoreHandler) createCredential(c *gin.Context) {
	var body domain.Credential
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	errs := make(map[string]string)
	if strings.TrimSpace(body.Usuario) == "" {
		errs["usuario"] = "usuario обязателен"
	}
	if body.Password == "" {
		errs["password"] = "password обязателен"
	}
	if len(errs) > 0 {
		writeError(c, h.log, "create login", &domain.ValidationError{Fields: errs})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.creds.Create(ctx, body)
	if err != nil {
		writeError(c, h.log, "create login", err)
		return
	}
	created.Password = ""
	c.JSON(http.StatusCreated, created)
}
