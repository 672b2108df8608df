package utils

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// NoContent answers 204 with no body. The frontends read it as a soft
// miss: resource absent, or precondition not met (e.g. a booking with
// no cancellation option). Both cases share the code on purpose, for
// wire compatibility.
func NoContent(ctx iris.Context) {
	ctx.StatusCode(iris.StatusNoContent)
}

// BadRequest logs the underlying error and answers 400 with a short
// message; provider and persistence failures all land here.
func BadRequest(ctx iris.Context, message string, err error) {
	if err != nil {
		log.Printf("%s %s failed: %s: %v", ctx.Method(), ctx.Path(), message, err)
	}
	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{"message": message})
}

// HandleValidationErrors maps ReadJSON/validator failures to 400 with
// per-field details when available.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, iris.Map{
				"field": e.Field(),
				"tag":   e.Tag(),
			})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "validation failed", "fields": fields})
		return
	}
	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(iris.Map{"message": "invalid request body"})
}
