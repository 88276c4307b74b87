package api

import (
	"context"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the token claims, if any, from the context
func ctxGetClaims(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

// ctxGetUserID returns the id of the authenticated user
func ctxGetUserID(ctx context.Context) (uuid.UUID, error) {
	claims, ok := ctxGetClaims(ctx)
	if !ok {
		return uuid.Nil, errs.NewMissingTokenError()
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return id, nil
}

// clientIP is the remote address without its port. Behind a proxy it relies on
// chi's RealIP middleware having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func callerFrom(r *http.Request) services.Caller {
	_, authenticated := ctxGetClaims(r.Context())
	return services.Caller{Identifier: clientIP(r), Authenticated: authenticated}
}
