package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// numeric читается как текст: точность decimal не теряется на float.
const orderColumns = `id, nombre, cantidad, descripcion, estado, total::text, acuenta::text, created_at`

// OrderRepository — таблица servicios на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// List — все заказы в порядке id (порядок вставки).
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM servicios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select servicios: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate servicios: %w", err)
	}
	return orders, nil
}

// Create — новая строка; id и created_at присваивает база.
func (r *OrderRepository) Create(ctx context.Context, f domain.Fields) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO servicios (nombre, cantidad, descripcion, estado, total, acuenta)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric)
		RETURNING `+orderColumns,
		f.Nombre, f.Cantidad, f.Descripcion, string(f.Estado), f.Total.String(), f.Acuenta.String(),
	)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert servicio: %w", err)
	}
	return o, nil
}

// Update — полная замена шести полей; id и created_at не меняются.
func (r *OrderRepository) Update(ctx context.Context, id int64, f domain.Fields) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE servicios SET
			nombre = $1,
			cantidad = $2,
			descripcion = $3,
			estado = $4,
			total = $5::numeric,
			acuenta = $6::numeric
		WHERE id = $7
		RETURNING `+orderColumns,
		f.Nombre, f.Cantidad, f.Descripcion, string(f.Estado), f.Total.String(), f.Acuenta.String(), id,
	)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("update servicio %d: %w", id, err)
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM servicios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete servicio %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o              domain.Order
		estado         string
		total, acuenta string
	)
	if err := row.Scan(&o.ID, &o.Nombre, &o.Cantidad, &o.Descripcion, &estado, &total, &acuenta, &o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	o.Estado = domain.Estado(estado)

	var err error
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, fmt.Errorf("parse total %q: %w", total, err)
	}
	if o.Acuenta, err = decimal.NewFromString(acuenta); err != nil {
		return domain.Order{}, fmt.Errorf("parse acuenta %q: %w", acuenta, err)
	}
	return o, nil
}
