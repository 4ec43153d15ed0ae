package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierprint/printshop-service/internal/client"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Client) error {
	query := `
        INSERT INTO clients (id, shop_id, name, phone, email, company, notes, is_active, created_at, updated_at)
        VALUES (:id, :shop_id, :name, :phone, :email, :company, :notes, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Client) error {
	query := `
        UPDATE clients
        SET name = :name,
            phone = :phone,
            email = :email,
            company = :company,
            notes = :notes,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := r.DB.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindByPhone(ctx context.Context, shopID, phone string) (*model.Client, error) {
	var c model.Client
	query := `SELECT * FROM clients WHERE shop_id = $1 AND phone = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &c, query, shopID, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *client.ClientFilters) ([]model.Client, int, error) {
	var clients []model.Client
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR phone ILIKE :search OR company ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM clients" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM clients" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &clients, args)
	return clients, count, err
}
