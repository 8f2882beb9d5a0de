package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// AddressRepository manages customer addresses.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Address, error)
}

type addressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository instantiates repository.
func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &addressRepository{pool: pool}
}

const addressColumns = `id, user_id, street, city, state, postal_code, country, created_at`

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	const query = `
        INSERT INTO addresses (user_id, street, city, state, postal_code, country)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.PostalCode,
		address.Country,
	).Scan(&address.ID, &address.CreatedAt)
}

func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	const query = `
        UPDATE addresses SET street=$1, city=$2, state=$3, postal_code=$4, country=$5
        WHERE id=$6`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		address.Street,
		address.City,
		address.State,
		address.PostalCode,
		address.Country,
		address.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *addressRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM addresses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *addressRepository) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	var address domain.Address
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id=$1`, id,
	).Scan(
		&address.ID,
		&address.UserID,
		&address.Street,
		&address.City,
		&address.State,
		&address.PostalCode,
		&address.Country,
		&address.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var address domain.Address
		if err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Street,
			&address.City,
			&address.State,
			&address.PostalCode,
			&address.Country,
			&address.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, address)
	}
	return result, rows.Err()
}
