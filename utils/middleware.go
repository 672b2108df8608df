package utils

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDMiddleware ensures the {userId} route parameter belongs to the
// authenticated user. Admins pass regardless.
func UserIDMiddleware(ctx iris.Context) {
	id := ctx.Params().Get("userId")

	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Type == "admin" {
		ctx.Next()
		return
	}

	userID := strconv.FormatUint(uint64(claims.ID), 10)
	if userID != id {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	ctx.Next()
}

// AdminOnlyMiddleware restricts a route to admin accounts.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Type != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AgencyOrAdminMiddleware restricts a route to agency or admin accounts.
func AgencyOrAdminMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Type != "admin" && claims.Type != "agency" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "agency access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
