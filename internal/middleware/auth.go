package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/apierror"
	"gamevault-api/pkg/response"
)

// UserIDKey is the context key for the authenticated user's ID.
const UserIDKey contextKey = "user_id"

// GetUserID retrieves the authenticated user ID from context. The zero
// ObjectID means the request is anonymous.
func GetUserID(ctx context.Context) primitive.ObjectID {
	if id, ok := ctx.Value(UserIDKey).(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// Auth requires a valid session token and puts the user ID into context.
func Auth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, apierror.Unauthorized("Authentication required"))
				return
			}

			claims, err := auth.ParseToken(token)
			if err != nil {
				response.Error(w, apierror.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user ID when a valid token is present but lets
// anonymous requests through. Used by read-only feed endpoints.
func OptionalAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := auth.ParseToken(token); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows only admin accounts through. The role is re-read from
// storage on every request, so a demoted admin is locked out immediately
// even with a live token.
func RequireAdmin(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID.IsZero() {
				response.Error(w, apierror.Unauthorized("Authentication required"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				response.Error(w, err)
				return
			}
			if user == nil || user.Role != model.RoleAdmin {
				response.Error(w, apierror.Forbidden("Admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BlockAdminPurchase keeps admin accounts out of the storefront purchase
// paths. The check reads the stored role, not a token claim.
func BlockAdminPurchase(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID.IsZero() {
				response.Error(w, apierror.Unauthorized("Authentication required"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				response.Error(w, err)
				return
			}
			if user == nil {
				response.Error(w, apierror.Unauthorized("User not found"))
				return
			}
			if user.Role == model.RoleAdmin {
				response.Error(w, apierror.Forbidden("Admin accounts cannot make purchases"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
