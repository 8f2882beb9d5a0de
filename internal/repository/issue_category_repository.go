package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// IssueCategoryRepository manages issue-category reference data.
type IssueCategoryRepository interface {
	Create(ctx context.Context, category *domain.IssueCategory) error
	Update(ctx context.Context, category *domain.IssueCategory) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.IssueCategory, error)
	GetByName(ctx context.Context, name string) (*domain.IssueCategory, error)
	ListAll(ctx context.Context) ([]domain.IssueCategory, error)
}

type issueCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewIssueCategoryRepository instantiates repository.
func NewIssueCategoryRepository(pool *pgxpool.Pool) IssueCategoryRepository {
	return &issueCategoryRepository{pool: pool}
}

func (r *issueCategoryRepository) Create(ctx context.Context, category *domain.IssueCategory) error {
	return querier(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO issue_categories (category_name) VALUES ($1) RETURNING id`,
		category.Name,
	).Scan(&category.ID)
}

func (r *issueCategoryRepository) Update(ctx context.Context, category *domain.IssueCategory) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE issue_categories SET category_name=$1 WHERE id=$2`,
		category.Name, category.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueCategoryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM issue_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.IssueCategory, error) {
	var category domain.IssueCategory
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, category_name FROM issue_categories WHERE id=$1`, id,
	).Scan(&category.ID, &category.Name); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *issueCategoryRepository) GetByName(ctx context.Context, name string) (*domain.IssueCategory, error) {
	var category domain.IssueCategory
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, category_name FROM issue_categories WHERE category_name=$1`, name,
	).Scan(&category.ID, &category.Name); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *issueCategoryRepository) ListAll(ctx context.Context) ([]domain.IssueCategory, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		`SELECT id, category_name FROM issue_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IssueCategory
	for rows.Next() {
		var category domain.IssueCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
