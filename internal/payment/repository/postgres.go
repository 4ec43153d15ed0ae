package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/payment"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
        INSERT INTO payments (id, shop_id, order_id, invoice_number, amount, method, received_by, notes, created_at, updated_at)
        VALUES (:id, :shop_id, :order_id, :invoice_number, :amount, :method, :received_by, :notes, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM payments WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *payment.PaymentFilters) ([]model.Payment, int, error) {
	var payments []model.Payment
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.Method != "" {
		conditions = append(conditions, "method = :method")
		args["method"] = f.Method
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM payments" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM payments" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &payments, args)
	return payments, count, err
}

func (r *PGRepository) FindByOrder(ctx context.Context, shopID, orderID string) ([]model.Payment, error) {
	var payments []model.Payment
	query := `SELECT * FROM payments WHERE shop_id = $1 AND order_id = $2 ORDER BY created_at DESC`
	err := r.DB.SelectContext(ctx, &payments, query, shopID, orderID)
	return payments, err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *PGRepository) NextInvoiceSequence(ctx context.Context, shopID, day string) (int, error) {
	var seq int
	query := `
        INSERT INTO invoice_counters (shop_id, day, seq)
        VALUES ($1, $2, 1)
        ON CONFLICT (shop_id, day)
        DO UPDATE SET seq = invoice_counters.seq + 1
        RETURNING seq
    `
	err := r.DB.QueryRowxContext(ctx, query, shopID, day).Scan(&seq)
	return seq, err
}
