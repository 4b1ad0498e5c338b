package rest

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/auth"
	"github.com/Gunvolt24/printshop_console/internal/cache/memory"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/internal/usecase"
	"github.com/Gunvolt24/printshop_console/internal/workspace"
	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	"github.com/Gunvolt24/printshop_console/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// HeaderSessionID — идентификатор консольной сессии, выданный при входе.
const HeaderSessionID = "X-Session-ID"

const workspaceKey = "workspace"

// Authenticator — проверка учётных данных (auth.Authenticator).
type Authenticator interface {
	Login(ctx context.Context, usuario, password string) (domain.Credential, error)
}

// Collection — канонический кэш заказов с состоянием загрузки.
type Collection interface {
	ports.OrderCache
	State() memory.State
}

// MutationStatus — индикаторы create/update/delete.
type MutationStatus interface {
	Status() usecase.Status
}

// ConsoleHandler — HTTP API консоли поверх рабочих мест пользователей.
type ConsoleHandler struct {
	auth    Authenticator
	spaces  *workspace.Manager
	cache   Collection
	muts    MutationStatus
	state   ports.StateStore
	log     ports.Logger
	timeout time.Duration
}

func NewConsoleHandler(
	authn Authenticator,
	spaces *workspace.Manager,
	cache Collection,
	muts MutationStatus,
	state ports.StateStore,
	log ports.Logger,
	timeout time.Duration,
) *ConsoleHandler {
	return &ConsoleHandler{
		auth:    authn,
		spaces:  spaces,
		cache:   cache,
		muts:    muts,
		state:   state,
		log:     log,
		timeout: timeout,
	}
}

// NewConsoleRouter — маршруты консоли. otelServiceName пустой -> без трассировки.
func NewConsoleRouter(h *ConsoleHandler, staticDir, otelServiceName string) *gin.Engine {
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

	r.POST("/session/login", h.login)

	s := r.Group("/", h.requireSession())
	{
		s.POST("/session/logout", h.logout)
		s.GET("/session/theme", h.getTheme)
		s.PUT("/session/theme", h.putTheme)
		s.GET("/menu", h.menu)

		s.GET("/orders", h.listOrders)
		s.POST("/orders/refresh", h.refresh)
		s.GET("/orders/status", h.status)
		s.POST("/orders/:id/delete", h.requestDelete)
		s.POST("/orders/delete/confirm", h.confirmDelete)
		s.POST("/orders/delete/cancel", h.cancelDelete)

		s.GET("/draft", h.getDraft)
		s.POST("/draft/new", h.newDraft)
		s.POST("/draft/edit/:id", h.editDraft)
		s.PATCH("/draft", h.patchDraft)
		s.POST("/draft/submit", h.submitDraft)
		s.POST("/draft/cancel", h.cancelDraft)
	}

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}

// requireSession — рабочее место по X-Session-ID. После перезапуска процесса
// место восстанавливается из сохранённой учётной записи.
func (h *ConsoleHandler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := strings.TrimSpace(c.GetHeader(HeaderSessionID))
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + HeaderSessionID})
			return
		}

		ws, err := h.spaces.Get(sid)
		if err != nil {
			user, ok, lerr := h.state.LoadUser(ctx, sid)
			if lerr != nil {
				h.log.Warnf(ctx, "load persisted user session=%s: %v", sid, lerr)
			}
			if lerr != nil || !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": workspace.ErrUnknownSession.Error()})
				return
			}
			ws = h.spaces.Restore(ctx, sid, user)
		}

		ctx = ctxmeta.WithSessionID(ctx, sid)
		ctx = ctxmeta.WithAuthToken(ctx, ws.User().Token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func currentWorkspace(c *gin.Context) *workspace.Workspace {
	return c.MustGet(workspaceKey).(*workspace.Workspace)
}

// withTimeout — контекст обработчика с таймаутом (если задан).
func (h *ConsoleHandler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *ConsoleHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	user, err := h.auth.Login(ctx, req.Usuario, req.Password)
	if err != nil {
		writeError(c, h.log, "login", err)
		return
	}

	ws := h.spaces.Open(ctx, user)
	if err := h.state.SaveUser(ctx, ws.ID(), user); err != nil {
		h.log.Warnf(ctx, "persist user session=%s: %v", ws.ID(), err)
	}
	if err := h.state.SaveTheme(ctx, ws.ID(), domain.ThemeSystem); err != nil {
		h.log.Warnf(ctx, "persist theme session=%s: %v", ws.ID(), err)
	}

	// список перечитывается при входе, как при открытии панели
	if err := h.cache.Refresh(ctx); err != nil {
		h.log.Warnf(ctx, "refresh on login: %v", err)
	}

	u := ws.User()
	c.JSON(http.StatusOK, loginResponse{
		SessionID: ws.ID(),
		User:      u,
		Theme:     domain.ThemeSystem,
		Menu:      auth.VisibleMenu(&u),
	})
}

func (h *ConsoleHandler) logout(c *gin.Context) {
	ws := currentWorkspace(c)
	ctx := c.Request.Context()

	if err := h.state.Clear(ctx, ws.ID()); err != nil {
		h.log.Warnf(ctx, "clear persisted state session=%s: %v", ws.ID(), err)
	}
	h.spaces.Close(ctx, ws.ID())
	c.Status(http.StatusNoContent)
}

func (h *ConsoleHandler) getTheme(c *gin.Context) {
	ws := currentWorkspace(c)
	theme, err := h.state.LoadTheme(c.Request.Context(), ws.ID())
	if err != nil {
		writeError(c, h.log, "load theme", err)
		return
	}
	prefersDark := c.Query("prefersDark") == "true"
	c.JSON(http.StatusOK, themeResponse{Theme: theme, Resolved: theme.Resolve(prefersDark)})
}

func (h *ConsoleHandler) putTheme(c *gin.Context) {
	ws := currentWorkspace(c)
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	theme, ok := domain.ParseTheme(req.Theme)
	if !ok {
		writeError(c, h.log, "save theme", &domain.ValidationError{
			Fields: map[string]string{"theme": "theme: допустимы light, dark, system"},
		})
		return
	}
	if err := h.state.SaveTheme(c.Request.Context(), ws.ID(), theme); err != nil {
		writeError(c, h.log, "save theme", err)
		return
	}
	prefersDark := c.Query("prefersDark") == "true"
	c.JSON(http.StatusOK, themeResponse{Theme: theme, Resolved: theme.Resolve(prefersDark)})
}

func (h *ConsoleHandler) menu(c *gin.Context) {
	u := currentWorkspace(c).User()
	c.JSON(http.StatusOK, auth.VisibleMenu(&u))
}

// listOrders — текущая страница. Смена tab или q возвращает на первую страницу.
func (h *ConsoleHandler) listOrders(c *gin.Context) {
	ws := currentWorkspace(c)
	view := ws.View()

	if tab, ok := c.GetQuery("tab"); ok && tab != view.Filter() {
		view.SetFilter(tab)
	}
	if q, ok := c.GetQuery("q"); ok && q != view.Search() {
		view.SetSearch(q)
	}
	page, ok, err := httpx.QueryInt(c, "page")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ok {
		view.GoTo(page)
	}

	h.renderPage(c, ws, http.StatusOK)
}

func (h *ConsoleHandler) renderPage(c *gin.Context, ws *workspace.Workspace, status int) {
	rendered := ws.Render(c.Request.Context())
	u := ws.User()
	c.JSON(status, toPageResponse(&rendered, h.cache.State(), &u))
}

func (h *ConsoleHandler) refresh(c *gin.Context) {
	ws := currentWorkspace(c)
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.cache.Refresh(ctx); err != nil {
		writeError(c, h.log, "refresh", err)
		return
	}
	ws.View().Clamp(h.cache.Snapshot(ctx))
	h.renderPage(c, ws, http.StatusOK)
}

func (h *ConsoleHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, toStatusResponse(h.muts.Status(), h.cache.State()))
}

func (h *ConsoleHandler) getDraft(c *gin.Context) {
	c.JSON(http.StatusOK, toDraftResponse(currentWorkspace(c).Edit()))
}

func (h *ConsoleHandler) newDraft(c *gin.Context) {
	ws := currentWorkspace(c)
	if err := ws.OpenNew(); err != nil {
		writeError(c, h.log, "open draft", err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(ws.Edit()))
}

func (h *ConsoleHandler) editDraft(c *gin.Context) {
	ws := currentWorkspace(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ws.OpenEdit(c.Request.Context(), id); err != nil {
		writeError(c, h.log, "open draft", err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(ws.Edit()))
}

// patchDraft — тело {"поле": "значение", ...}; значения сохраняются как введены.
func (h *ConsoleHandler) patchDraft(c *gin.Context) {
	ws := currentWorkspace(c)
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	for name, value := range fields {
		if err := ws.SetField(name, value); err != nil {
			writeError(c, h.log, "update draft", err)
			return
		}
	}
	c.JSON(http.StatusOK, toDraftResponse(ws.Edit()))
}

func (h *ConsoleHandler) submitDraft(c *gin.Context) {
	ws := currentWorkspace(c)
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	res, err := ws.Submit(ctx)
	if err != nil {
		writeError(c, h.log, "submit draft", err)
		return
	}
	u := ws.User()
	c.JSON(http.StatusOK, gin.H{
		"order":   toOrderView(&res.Order, auth.CanSeeAmounts(&u)),
		"applied": res.Applied,
	})
}

func (h *ConsoleHandler) cancelDraft(c *gin.Context) {
	currentWorkspace(c).CancelEdit()
	c.Status(http.StatusNoContent)
}

func (h *ConsoleHandler) requestDelete(c *gin.Context) {
	ws := currentWorkspace(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ws.RequestDelete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, "request delete", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"pendingId": id})
}

func (h *ConsoleHandler) confirmDelete(c *gin.Context) {
	ws := currentWorkspace(c)
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	id, err := ws.ConfirmDelete(ctx)
	if err != nil {
		writeError(c, h.log, "confirm delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedId": id})
}

func (h *ConsoleHandler) cancelDelete(c *gin.Context) {
	if err := currentWorkspace(c).CancelDelete(); err != nil {
		writeError(c, h.log, "cancel delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
