package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// RoleMiddleware restricts a route to a declared set of roles, so no
// handler has to re-check role strings inline. It also exposes the
// caller's ID and role to downstream handlers.
func RoleMiddleware(allowed ...string) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)
		if !slices.Contains(allowed, claims.Role) {
			ctx.StatusCode(iris.StatusForbidden)
			ctx.JSON(iris.Map{"error": "forbidden", "message": "insufficient role"})
			return
		}
		ctx.Values().Set("userID", claims.ID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// UserIDFromTokenMiddleware extracts user ID and role from the JWT and
// stores them in the context, with no role restriction.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}
