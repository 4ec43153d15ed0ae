package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, m *model.Material) error {
	query := `
        INSERT INTO materials (id, shop_id, name, type, unit_price, unit, options, is_active, created_at, updated_at)
        VALUES (:id, :shop_id, :name, :type, :unit_price, :unit, :options, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) Update(ctx context.Context, m *model.Material) error {
	query := `
        UPDATE materials
        SET name = :name,
            type = :type,
            unit_price = :unit_price,
            unit = :unit,
            options = :options,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Material, error) {
	var m model.Material
	query := `SELECT * FROM materials WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MaterialFilters) ([]model.Material, int, error) {
	var materials []model.Material
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		conditions = append(conditions, "name ILIKE :search")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM materials" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM materials" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &materials, args)
	return materials, count, err
}

func (r *PGRepository) CreateRoll(ctx context.Context, roll *model.Roll) error {
	query := `
        INSERT INTO rolls (id, shop_id, material_id, width, length, unit, alert_threshold, updated_at)
        VALUES (:id, :shop_id, :material_id, :width, :length, :unit, :alert_threshold, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, roll)
	return err
}

func (r *PGRepository) GetRoll(ctx context.Context, id string) (*model.Roll, error) {
	var roll model.Roll
	err := r.DB.GetContext(ctx, &roll, `SELECT * FROM rolls WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &roll, nil
}

// RollsByMaterial returns rolls narrowest first so width selection can take
// the first sufficient one.
func (r *PGRepository) RollsByMaterial(ctx context.Context, shopID, materialID string) ([]model.Roll, error) {
	var rolls []model.Roll
	query := `SELECT * FROM rolls WHERE shop_id = $1 AND material_id = $2 ORDER BY width ASC`
	err := r.DB.SelectContext(ctx, &rolls, query, shopID, materialID)
	return rolls, err
}

func (r *PGRepository) FindRolls(ctx context.Context, f *dto.RollFilters) ([]model.Roll, int, error) {
	var rolls []model.Roll
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.MaterialID != "" {
		conditions = append(conditions, "material_id = :material_id")
		args["material_id"] = f.MaterialID
	}
	if f.LowStock {
		conditions = append(conditions, "length < alert_threshold AND alert_threshold > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM rolls" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM rolls" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &rolls, args)
	return rolls, count, err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ShopID != "" {
		conditions = append(conditions, "shop_id = :shop_id")
		args["shop_id"] = f.ShopID
	}
	if f.MaterialID != "" {
		conditions = append(conditions, "material_id = :material_id")
		args["material_id"] = f.MaterialID
	}
	if f.RollID != "" {
		conditions = append(conditions, "roll_id = :roll_id")
		args["roll_id"] = f.RollID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

// AdjustRollWithMovement updates a roll's length and writes the audit row in
// one transaction so stock and its history cannot drift apart.
func (r *PGRepository) AdjustRollWithMovement(ctx context.Context, roll *model.Roll, movement *model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE rolls
        SET length = :length,
            alert_threshold = :alert_threshold,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err = tx.NamedExecContext(ctx, updateQuery, roll)
	if err != nil {
		return fmt.Errorf("failed to update roll: %w", err)
	}

	insertLogQuery := `
        INSERT INTO stock_movements (
            id, shop_id, material_id, roll_id,
            movement_type, length_change, length_before, length_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :shop_id, :material_id, :roll_id,
            :movement_type, :length_change, :length_before, :length_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err = tx.NamedExecContext(ctx, insertLogQuery, movement)
	if err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}
