package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbriard/carnets/internal/common"
)

type ctxKey string

const teacherIDKey ctxKey = "teacherID"

// Claims carries the caller's tenant identity. Issuing these tokens is the
// auth system's job; this package only verifies them.
type Claims struct {
	jwt.RegisteredClaims
	TeacherID string
}

// TeacherIDFromToken verifies an HS256 token and extracts the tenant id.
func TeacherIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.TeacherID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.TeacherID, nil
}

// teacherID returns the caller identity stored by the middleware.
func teacherID(ctx context.Context) string {
	id, _ := ctx.Value(teacherIDKey).(string)
	return id
}

// withCallerIdentity rejects requests without a valid bearer token and makes
// the tenant id available to handlers.
func (h *Handler) withCallerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		id, err := TeacherIDFromToken(token, h.secretKey)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), teacherIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
