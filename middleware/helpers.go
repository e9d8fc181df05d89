package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/poker-league/services"
	"github.com/golang-jwt/jwt/v4"
)

func accountIDFromClaims(claims jwt.MapClaims) (int, error) {
	idClaim, ok := claims[jwtClaimAccountID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimAccountID)
	}

	var id int
	switch v := idClaim.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimAccountID, v)
		}
		id = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim: %w", jwtClaimAccountID, err)
		}
		id = n
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number, got %T", jwtClaimAccountID, idClaim)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid account ID value in '%s' claim: %d", jwtClaimAccountID, id)
	}
	return id, nil
}

func GetAccountIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("session claims not found in context")
	}
	return accountIDFromClaims(claims)
}

func IsAdminFromContext(ctx context.Context) bool {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return false
	}
	isAdmin, _ := claims[jwtClaimIsAdmin].(bool)
	return isAdmin
}

// ActorFromContext returns services.ErrUnauthenticated when no session is attached.
func ActorFromContext(ctx context.Context) (services.Actor, error) {
	id, err := GetAccountIDFromContext(ctx)
	if err != nil {
		return services.Actor{}, fmt.Errorf("%w: %v", services.ErrUnauthenticated, err)
	}
	return services.Actor{AccountID: id, IsAdmin: IsAdminFromContext(ctx)}, nil
}
