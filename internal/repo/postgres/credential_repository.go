package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.CredentialRepository = (*CredentialRepository)(nil)

// CredentialRepository — таблица login.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// List — все учётные записи вместе с паролями (сверку делает консоль).
func (r *CredentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, usuario, password, cargo, formatos, token
		FROM login
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select login: %w", err)
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.ID, &c.Usuario, &c.Password, &c.Cargo, &c.Formatos, &c.Token); err != nil {
			return nil, fmt.Errorf("scan login: %w", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login: %w", err)
	}
	return creds, nil
}

func (r *CredentialRepository) Create(ctx context.Context, c domain.Credential) (domain.Credential, error) {
	formatos := c.Formatos
	if formatos == nil {
		formatos = []string{}
	}
	cargo := c.Cargo
	if cargo == "" {
		cargo = "Usuario"
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO login (usuario, password, cargo, formatos, token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Usuario, c.Password, cargo, formatos, c.Token).Scan(&c.ID)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("insert login: %w", err)
	}
	c.Cargo = cargo
	c.Formatos = formatos
	return c, nil
}
