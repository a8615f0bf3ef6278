// Package auth verifies bearer tokens issued to back-office employees.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v4"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/pkg/response"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies the employee behind a request.
type Claims struct {
	EmployeeID string
	Role       string
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ValidateToken checks an HS256 token and extracts the employee claims.
func (v *Verifier) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "token parse error"), ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.Wrap(ErrInvalidToken, "invalid token claims")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return nil, errors.Wrap(ErrInvalidToken, "token missing employee id")
	}
	role, _ := claims["role"].(string)

	return &Claims{EmployeeID: employeeID, Role: role}, nil
}

// IssueToken signs a token for the given employee. Tokens are normally minted
// by the identity provider; this exists for tooling and tests.
func (v *Verifier) IssueToken(employeeID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type claimsKey struct{}

// FromContext returns the claims stored by Middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

// Middleware rejects requests without a valid "Authorization: Bearer" token.
func Middleware(v *Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			claims, err := v.ValidateToken(token)
			if err != nil {
				log.Debugw("rejected token", "path", r.URL.Path, "error", err)
				response.Unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
