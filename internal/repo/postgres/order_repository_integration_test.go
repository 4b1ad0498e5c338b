//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	pgrepo "github.com/Gunvolt24/printshop_console/internal/repo/postgres"
	"github.com/Gunvolt24/printshop_console/internal/testutil"
)

// startDB — контейнер Postgres с применёнными миграциями и пул к нему.
func startDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	require.NoError(t, testutil.ApplyMigrationsGoose(ctxStart, pg.DSN))

	// короткий контекст — на сами БД-операции
	ctxTest, cancelTest := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancelTest)

	pool, err := pgxpool.New(ctxTest, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool, ctxTest
}

// 1) Создание и чтение списка: суммы без потери точности
func TestRepo_CreateAndList_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	f := testutil.MakeFields(func(f *domain.Fields) {
		f.Total = decimal.RequireFromString("150.55")
		f.Acuenta = decimal.RequireFromString("200")
	})
	created, err := repo.Create(ctx, f)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	second, err := repo.Create(ctx, testutil.MakeFields(testutil.WithEstado(domain.EstadoDiseno)))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
	require.True(t, list[0].Total.Equal(decimal.RequireFromString("150.55")))
	// acuenta > total допускается
	require.True(t, list[0].Saldo().IsNegative())
	require.Equal(t, domain.EstadoDiseno, list[1].Estado)
}

// 2) Обновление меняет шесть полей, id и created_at остаются
func TestRepo_Update_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	created, err := repo.Create(ctx, testutil.MakeFields())
	require.NoError(t, err)

	upd := testutil.MakeFields(testutil.WithNombre("Luis"), testutil.WithEstado(domain.EstadoTerminado))
	got, err := repo.Update(ctx, created.ID, upd)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "Luis", got.Nombre)
	require.Equal(t, domain.EstadoTerminado, got.Estado)
	require.True(t, created.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Update(ctx, created.ID+1000, upd)
	require.True(t, errors.Is(err, domain.ErrNotFound), "want not found, got %v", err)
}

// 3) Удаление и повторное удаление
func TestRepo_Delete_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewOrderRepository(pool)

	created, err := repo.Create(ctx, testutil.MakeFields())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	err = repo.Delete(ctx, created.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound), "want not found, got %v", err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

// 4) Учётные записи: начальный администратор из миграции + новая запись
func TestRepo_Credentials_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := startDB(t)
	repo := pgrepo.NewCredentialRepository(pool)

	created, err := repo.Create(ctx, domain.Credential{
		Usuario: "caja-" + testutil.UniqSuffix(), Password: "p", Formatos: []string{"ticket", "boleta"},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Usuario", created.Cargo)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "admin", list[0].Usuario)
	require.Equal(t, domain.RoleAdmin, list[0].Cargo)
	require.Equal(t, []string{"ticket", "boleta"}, list[1].Formatos)
	require.Equal(t, "p", list[1].Password)
}
