package routes

import (
	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/kataras/iris/v12"
)

type LocationValueRequest struct {
	Language string `json:"language" validate:"required,len=2"`
	Value    string `json:"value" validate:"required"`
}

type LocationRequest struct {
	Values []LocationValueRequest `json:"values" validate:"required,min=1,dive"`
}

// CreateLocation stores a location with one display value per language.
func CreateLocation(ctx iris.Context) {
	var req LocationRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	location := models.Location{}
	for _, v := range req.Values {
		location.Values = append(location.Values, models.LocationValue{
			Language: v.Language,
			Value:    v.Value,
		})
	}

	if err := storage.DB.Create(&location).Error; err != nil {
		utils.BadRequest(ctx, "failed to create location", err)
		return
	}

	ctx.JSON(location)
}

// GetLocation returns a location with its name resolved for the
// requested language.
func GetLocation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid location id", err)
		return
	}
	lang := language(ctx.Params().Get("language"))

	var location models.Location
	if err := storage.DB.
		Preload("Values").
		First(&location, id).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"id":     location.ID,
		"name":   location.Name(lang),
		"values": location.Values,
	})
}
