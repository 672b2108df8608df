package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

// JSONFacet writes the faceted list shape the marketplace frontends
// expect: a single-element array carrying the page of rows plus a
// pageInfo facet with the unpaginated total.
func JSONFacet(ctx iris.Context, data interface{}, total int64) {
	ctx.JSON([]iris.Map{
		{
			"resultData": data,
			"pageInfo":   []iris.Map{{"totalRecords": total}},
		},
	})
}
