package postgres

import (
	"context"
	"errors"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type ClientsRepository struct {
	querier database.Querier
}

func NewClientsRepository(querier database.Querier) *ClientsRepository {
	return &ClientsRepository{
		querier: querier,
	}
}

func (cr *ClientsRepository) GetClient(ctx context.Context, id int64) (domain.Client, error) {
	sql := `SELECT id, name FROM clients WHERE id = $1`

	var client domain.Client
	err := cr.querier.QueryRow(ctx, sql, id).Scan(&client.ID, &client.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, &domain.ClientNotFoundError{ID: id}
		}

		return domain.Client{}, mapStoreError("get client", err)
	}

	return client, nil
}

func (cr *ClientsRepository) ClientExists(ctx context.Context, id int64) (bool, error) {
	sql := `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`

	var exists bool
	err := cr.querier.QueryRow(ctx, sql, id).Scan(&exists)
	if err != nil {
		return false, mapStoreError("check client", err)
	}

	return exists, nil
}

func (cr *ClientsRepository) SaveClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	sql := `INSERT INTO clients (name) VALUES ($1) RETURNING id`

	err := cr.querier.QueryRow(ctx, sql, client.Name).Scan(&client.ID)
	if err != nil {
		return domain.Client{}, mapStoreError("save client", err)
	}

	return client, nil
}
