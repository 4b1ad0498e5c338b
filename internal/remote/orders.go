package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
)

// orderPayload — тело create/update: ровно шесть полей, суммы уходят JSON-числами.
type orderPayload struct {
	Nombre      string        `json:"nombre"`
	Cantidad    int           `json:"cantidad"`
	Descripcion string        `json:"descripcion"`
	Estado      domain.Estado `json:"estado"`
	Total       json.Number   `json:"total"`
	Acuenta     json.Number   `json:"acuenta"`
}

func payloadFromFields(f domain.Fields) orderPayload {
	return orderPayload{
		Nombre:      f.Nombre,
		Cantidad:    f.Cantidad,
		Descripcion: f.Descripcion,
		Estado:      f.Estado,
		Total:       json.Number(f.Total.String()),
		Acuenta:     json.Number(f.Acuenta.String()),
	}
}

// OrderClient — ports.OrderStore поверх ресурса заказов.
type OrderClient struct {
	res *Resource[domain.Order]
}

var _ ports.OrderStore = (*OrderClient)(nil)

func NewOrderClient(client *http.Client, baseURL, resource string) (*OrderClient, error) {
	res, err := NewResource[domain.Order](client, baseURL, resource)
	if err != nil {
		return nil, err
	}
	return &OrderClient{res: res}, nil
}

func (c *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	return c.res.List(ctx)
}

func (c *OrderClient) Create(ctx context.Context, fields domain.Fields) (domain.Order, error) {
	return c.res.Create(ctx, payloadFromFields(fields))
}

func (c *OrderClient) UpdateByID(ctx context.Context, id int64, fields domain.Fields) (domain.Order, error) {
	return c.res.UpdateByID(ctx, id, payloadFromFields(fields))
}

func (c *OrderClient) DeleteByID(ctx context.Context, id int64) error {
	return c.res.DeleteByID(ctx, id)
}

// CredentialClient — ports.CredentialStore поверх ресурса учётных записей.
type CredentialClient struct {
	res *Resource[domain.Credential]
}

var _ ports.CredentialStore = (*CredentialClient)(nil)

func NewCredentialClient(client *http.Client, baseURL, resource string) (*CredentialClient, error) {
	res, err := NewResource[domain.Credential](client, baseURL, resource)
	if err != nil {
		return nil, err
	}
	return &CredentialClient{res: res}, nil
}

func (c *CredentialClient) List(ctx context.Context) ([]domain.Credential, error) {
	return c.res.List(ctx)
}
