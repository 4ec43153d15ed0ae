package repository

import (
	"context"
	"fmt"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (id, shop_id, type, title, description, from_role, to_role, meta, read, created_at)
        VALUES (:id, :shop_id, :type, :title, :description, :from_role, :to_role, :meta, :read, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, n)
	return err
}

func (r *PGRepository) MarkRead(ctx context.Context, shopID, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE shop_id = $1 AND id = $2`, shopID, id)
	return err
}

func (r *PGRepository) MarkAllRead(ctx context.Context, shopID, toRole string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE shop_id = $1 AND to_role = $2`, shopID, toRole)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, shopID, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE shop_id = $1 AND id = $2`, shopID, id)
	return err
}

func (r *PGRepository) DeleteAll(ctx context.Context, shopID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE shop_id = $1`, shopID)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context, shopID string, limit int) ([]model.Notification, error) {
	var items []model.Notification
	query := `SELECT * FROM notifications WHERE shop_id = $1 ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	err := r.DB.SelectContext(ctx, &items, query, shopID)
	return items, err
}

func (r *PGRepository) FindUnreadByRole(ctx context.Context, shopID, toRole string) ([]model.Notification, error) {
	var items []model.Notification
	query := `
        SELECT * FROM notifications
        WHERE shop_id = $1 AND to_role = $2 AND read = false
        ORDER BY created_at DESC
    `
	err := r.DB.SelectContext(ctx, &items, query, shopID, toRole)
	return items, err
}

func (r *PGRepository) FindByType(ctx context.Context, shopID string, typ model.NotificationType) ([]model.Notification, error) {
	var items []model.Notification
	query := `SELECT * FROM notifications WHERE shop_id = $1 AND type = $2 ORDER BY created_at DESC`
	err := r.DB.SelectContext(ctx, &items, query, shopID, typ)
	return items, err
}

func (r *PGRepository) FindByOrder(ctx context.Context, shopID, orderID string) ([]model.Notification, error) {
	var items []model.Notification
	query := `
        SELECT * FROM notifications
        WHERE shop_id = $1 AND meta->>'order_id' = $2
        ORDER BY created_at DESC
    `
	err := r.DB.SelectContext(ctx, &items, query, shopID, orderID)
	return items, err
}
