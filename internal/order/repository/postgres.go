package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, shop_id, number, client_id, client_name, material_id, roll_id,
            width_cm, length_cm, quantity, options,
            selected_width, material_length_used, area_sqm,
            base_price, options_cost, total_price, special,
            status, notes, created_by, created_at, updated_at
        )
        VALUES (
            :id, :shop_id, :number, :client_id, :client_name, :material_id, :roll_id,
            :width_cm, :length_cm, :quantity, :options,
            :selected_width, :material_length_used, :area_sqm,
            :base_price, :options_cost, :total_price, :special,
            :status, :notes, :created_by, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET client_id = :client_id,
            client_name = :client_name,
            options = :options,
            status = :status,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindByNumber(ctx context.Context, shopID, number string) (*model.Order, error) {
	var o model.Order
	query := `SELECT * FROM orders WHERE shop_id = $1 AND number = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &o, query, shopID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ClientID != "" {
		conditions = append(conditions, "client_id = :client_id")
		args["client_id"] = f.ClientID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(number ILIKE :search OR client_name ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Prevent SQL injection by whitelisting fields
		switch f.SortBy {
		case "number":
			orderBy = "number"
		case "total":
			orderBy = "total_price"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

// NextSequence bumps and returns the per-shop, per-day counter backing order
// numbers. The upsert keeps it race-safe across concurrent creates.
func (r *PGRepository) NextSequence(ctx context.Context, shopID, day string) (int, error) {
	var seq int
	query := `
        INSERT INTO order_counters (shop_id, day, seq)
        VALUES ($1, $2, 1)
        ON CONFLICT (shop_id, day)
        DO UPDATE SET seq = order_counters.seq + 1
        RETURNING seq
    `
	err := r.DB.QueryRowxContext(ctx, query, shopID, day).Scan(&seq)
	return seq, err
}
