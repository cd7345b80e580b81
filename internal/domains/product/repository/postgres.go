package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/pkg/database"
)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "description", "price", "image_url", "payment_link", "published", "created_at",
}

// psql: squirrel builder với placeholder $1, $2... cho pgx
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository tạo catalog store dựa trên pgx pool
func NewPostgresRepository(pool *pgxpool.Pool) backend.CatalogStore {
	return &postgresRepository{pool: pool}
}

// Insert ghi một catalog entry trong transaction
// id + created_at do database sinh (gen_random_uuid(), now())
func (r *postgresRepository) Insert(ctx context.Context, p *model.Product) (uuid.UUID, error) {
	query, args, err := buildInsertQuery(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("build insert: %w", err)
	}

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		var id uuid.UUID
		if err := tx.QueryRow(ctx, query, args...).Scan(&id, &p.CreatedAt); err != nil {
			return uuid.Nil, fmt.Errorf("insert product: %w", err)
		}
		p.ID = id
		return id, nil
	})
}

// SelectPublished: tất cả entry published = true, mới nhất trước
func (r *postgresRepository) SelectPublished(ctx context.Context) ([]*model.Product, error) {
	query, args, err := buildSelectPublishedQuery()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query published products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.PaymentLink, &p.Published, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// ExistsByImageURL dùng trước khi xóa orphan asset:
// commit timeout có thể đã ghi row dù client không nhận được ack
func (r *postgresRepository) ExistsByImageURL(ctx context.Context, imageURL string) (bool, error) {
	query, args, err := buildExistsByImageURLQuery(imageURL)
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check image reference: %w", err)
	}
	return exists, nil
}

// ============================================
// QUERY BUILDERS
// ============================================

func buildInsertQuery(p *model.Product) (string, []interface{}, error) {
	return psql.Insert(productsTable).
		SetMap(map[string]interface{}{
			"name":         p.Name,
			"description":  p.Description,
			"price":        p.Price,
			"image_url":    p.ImageURL,
			"payment_link": p.PaymentLink,
			"published":    p.Published,
		}).
		Suffix("RETURNING id, created_at").
		ToSql()
}

func buildSelectPublishedQuery() (string, []interface{}, error) {
	return psql.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"published": true}).
		OrderBy("created_at DESC").
		ToSql()
}

func buildExistsByImageURLQuery(imageURL string) (string, []interface{}, error) {
	return psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(productsTable).
		Where(squirrel.Eq{"image_url": imageURL}).
		Suffix(")").
		ToSql()
}
