package rest

import (
	"time"

	"github.com/Gunvolt24/printshop_console/internal/auth"
	"github.com/Gunvolt24/printshop_console/internal/cache/memory"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/editsession"
	"github.com/Gunvolt24/printshop_console/internal/listing"
	"github.com/Gunvolt24/printshop_console/internal/usecase"
)

// orderView — строка таблицы. Суммы видит только администратор.
type orderView struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Cantidad    int       `json:"cantidad"`
	Descripcion string    `json:"descripcion"`
	Estado      string    `json:"estado"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	Total       *string   `json:"total,omitempty"`
	Acuenta     *string   `json:"acuenta,omitempty"`
	Saldo       *string   `json:"saldo,omitempty"`
}

func toOrderView(o *domain.Order, showAmounts bool) orderView {
	v := orderView{
		ID:          o.ID,
		Nombre:      o.Nombre,
		Cantidad:    o.Cantidad,
		Descripcion: o.Descripcion,
		Estado:      string(o.Estado),
		CreatedAt:   o.CreatedAt,
	}
	if showAmounts {
		total := o.Total.StringFixed(2)
		acuenta := o.Acuenta.StringFixed(2)
		saldo := o.Saldo().StringFixed(2)
		v.Total, v.Acuenta, v.Saldo = &total, &acuenta, &saldo
	}
	return v
}

type pageResponse struct {
	Items        []orderView        `json:"items"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"totalPages"`
	Total        int                `json:"total"`
	Filter       string             `json:"filter"`
	Search       string             `json:"search"`
	Tabs         []string           `json:"tabs"`
	Links        []listing.PageLink `json:"links"`
	ShowControls bool               `json:"showControls"`
	ShowAmounts  bool               `json:"showAmounts"`
	Loading      bool               `json:"loading"`
	Error        string             `json:"error,omitempty"`
}

func toPageResponse(r *listing.Rendered, st memory.State, cred *domain.Credential) pageResponse {
	show := auth.CanSeeAmounts(cred)
	items := make([]orderView, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, toOrderView(&r.Items[i], show))
	}
	resp := pageResponse{
		Items:        items,
		Page:         r.Page.Page,
		TotalPages:   r.TotalPages,
		Total:        r.Total,
		Filter:       r.Filter,
		Search:       r.Search,
		Tabs:         listing.Tabs,
		Links:        r.Links,
		ShowControls: r.ShowControls,
		ShowAmounts:  show,
		Loading:      st.Loading,
	}
	if st.LastError != nil {
		resp.Error = st.LastError.Error()
	}
	return resp
}

type opStatusView struct {
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
}

func toOpStatusView(s usecase.OpStatus) opStatusView {
	v := opStatusView{Pending: s.Pending}
	if s.LastError != nil {
		v.Error = s.LastError.Error()
	}
	return v
}

type cacheStatusView struct {
	Loading     bool      `json:"loading"`
	Error       string    `json:"error,omitempty"`
	Size        int       `json:"size"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type statusResponse struct {
	Create opStatusView    `json:"create"`
	Update opStatusView    `json:"update"`
	Delete opStatusView    `json:"delete"`
	Cache  cacheStatusView `json:"cache"`
}

func toStatusResponse(ms usecase.Status, st memory.State) statusResponse {
	resp := statusResponse{
		Create: toOpStatusView(ms.Create),
		Update: toOpStatusView(ms.Update),
		Delete: toOpStatusView(ms.Delete),
		Cache:  cacheStatusView{Loading: st.Loading, Size: st.Size, RefreshedAt: st.RefreshedAt},
	}
	if st.LastError != nil {
		resp.Cache.Error = st.LastError.Error()
	}
	return resp
}

type draftResponse struct {
	State      string       `json:"state"`
	TargetID   int64        `json:"targetId,omitempty"`
	Draft      domain.Draft `json:"draft"`
	Generation uint64       `json:"generation"`
}

func toDraftResponse(s editsession.Snapshot) draftResponse {
	return draftResponse{State: s.State.String(), TargetID: s.TargetID, Draft: s.Draft, Generation: s.Generation}
}

type loginRequest struct {
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string            `json:"sessionId"`
	User      domain.Credential `json:"user"`
	Theme     domain.Theme      `json:"theme"`
	Menu      []auth.MenuItem   `json:"menu"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Theme    domain.Theme `json:"theme"`
	Resolved domain.Theme `json:"resolved"`
}
