package auth

import (
	"strings"

	"versioned-translator/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	UserKey     = "user"
	LanguageKey = "lang"
)

// AuthMiddleWare accepts a bearer token or a ?token= query parameter and
// stores the user and language claims on the context.
func AuthMiddleWare(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var token string
		if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if tokenQuery := ctx.Query("token"); tokenQuery != "" {
			token = tokenQuery
		} else {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		claims, err := VerifyJWT(token, secret)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		ctx.Set(UserKey, claims.Subject)
		ctx.Set(LanguageKey, claims.Language)
		ctx.Next()
	}
}

// InternalAuthMiddleware guards the host-to-service routes with a shared secret.
func InternalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(
			ctx.GetHeader("Authorization"),
			"Bearer ",
		)

		if secret == "" || token != secret {
			ctx.Error(errors.Unauthorized("Unauthorized internal call!", nil))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
