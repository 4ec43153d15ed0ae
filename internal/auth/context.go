package auth

import (
	"context"
)

type contextKey string

const (
	ctxShopID contextKey = "shop_id"
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "role"
)

// UserContext is what the auth middleware extracts from a verified token.
type UserContext struct {
	ShopID string
	UserID string
	Role   Role
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	ctx = context.WithValue(ctx, ctxShopID, u.ShopID)
	ctx = context.WithValue(ctx, ctxUserID, u.UserID)
	ctx = context.WithValue(ctx, ctxRole, u.Role)
	return ctx
}

func GetShopID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxShopID).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxUserID).(string); ok {
		return val
	}
	return ""
}

func GetRole(ctx context.Context) Role {
	if val, ok := ctx.Value(ctxRole).(Role); ok {
		return val
	}
	return ""
}
