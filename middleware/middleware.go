package middleware

import (
	"context"
	"net/http"
	"strings"

	"easymoves/auth"
	"easymoves/globals"
	"easymoves/models"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

// Wrapper is one guard in an access-control chain.
type Wrapper func(httprouter.Handle) httprouter.Handle

// Chain composes guards left to right: the first wrapper sees the request
// first and a failing guard short-circuits everything after it.
func Chain(wrappers ...Wrapper) Wrapper {
	return func(next httprouter.Handle) httprouter.Handle {
		for i := len(wrappers) - 1; i >= 0; i-- {
			next = wrappers[i](next)
		}
		return next
	}
}

// RoleDirectory resolves an email to its current role. The empty role
// means the email is unknown.
type RoleDirectory interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

// Guard holds what the access-control chain needs: token verification
// and a live role lookup. Roles are read from the store on every guarded
// request, never cached.
type Guard struct {
	tokens *auth.TokenService
	roles  RoleDirectory
}

func NewGuard(tokens *auth.TokenService, roles RoleDirectory) *Guard {
	return &Guard{tokens: tokens, roles: roles}
}

// Authenticate requires a valid "Bearer <token>" Authorization header and
// attaches the verified claims to the request context.
func (g *Guard) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := g.tokens.Verify(tokenString)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		ctx := context.WithValue(r.Context(), globals.ClaimsKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole looks the authenticated email up in the user store and
// rejects the request unless the stored role matches.
func (g *Guard) RequireRole(role models.Role) Wrapper {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims := ClaimsFromRequest(r)
			if claims == nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			current, err := g.roles.RoleOf(r.Context(), claims.Email)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "role lookup failed")
				return
			}
			if current != role {
				utils.RespondWithError(w, http.StatusForbidden, "forbidden access")
				return
			}

			next(w, r, ps)
		}
	}
}

// RequireSelf rejects requests whose path-email parameter differs from
// the authenticated identity, so a valid token cannot read another
// user's private data.
func RequireSelf(param string) Wrapper {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims := ClaimsFromRequest(r)
			if claims == nil || claims.Email != ps.ByName(param) {
				utils.RespondWithError(w, http.StatusForbidden, "forbidden access")
				return
			}
			next(w, r, ps)
		}
	}
}

// ClaimsFromRequest returns the claims Authenticate stored, or nil on an
// unguarded request.
func ClaimsFromRequest(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(globals.ClaimsKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
