package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 bearer token carrying the user's shop and role.
func IssueToken(secret string, ttl time.Duration, u UserContext) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.UserID,
		"shop_id": u.ShopID,
		"role":    string(u.Role),
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a bearer token and returns the embedded
// user context. The role claim must be one of the known roles.
func VerifyToken(secret, tokenString string) (UserContext, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return UserContext{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return UserContext{}, fmt.Errorf("invalid token")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := ParseRole(roleStr)
	if !ok {
		return UserContext{}, fmt.Errorf("unknown role in token: %q", roleStr)
	}

	userID, _ := claims["user_id"].(string)
	shopID, _ := claims["shop_id"].(string)

	return UserContext{ShopID: shopID, UserID: userID, Role: role}, nil
}
