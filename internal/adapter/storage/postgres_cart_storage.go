package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type PostgresCartStorage struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresCartStorage(pool *pgxpool.Pool, key string) *PostgresCartStorage {
	if key == "" {
		key = DefaultCartKey
	}
	return &PostgresCartStorage{pool: pool, key: key}
}

func (p *PostgresCartStorage) Load(ctx context.Context) (domain.Cart, error) {
	var blob []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM cart_slots WHERE key = $1`, p.key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cart slot: %w", err)
	}

	return decodeCart(blob)
}

func (p *PostgresCartStorage) Save(ctx context.Context, cart domain.Cart) error {
	blob, err := encodeCart(cart)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO cart_slots (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		p.key, string(blob),
	)
	if err != nil {
		return fmt.Errorf("upsert cart slot: %w", err)
	}
	return nil
}
