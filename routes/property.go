package routes

import (
	"log"
	"os"
	"path/filepath"

	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/kataras/iris/v12"
)

type PropertyRequest struct {
	Name         string  `json:"name" validate:"required"`
	Type         string  `json:"type"`
	AgencyID     uint    `json:"agencyId" validate:"required"`
	LocationID   uint    `json:"locationId" validate:"required"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Cancellation bool    `json:"cancellation"`
}

func CreateProperty(ctx iris.Context) {
	var req PropertyRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := models.Property{
		Name:         req.Name,
		Type:         req.Type,
		AgencyID:     req.AgencyID,
		LocationID:   req.LocationID,
		Description:  req.Description,
		Image:        req.Image,
		Price:        req.Price,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Cancellation: req.Cancellation,
	}
	if err := storage.DB.Create(&property).Error; err != nil {
		utils.BadRequest(ctx, "failed to create property", err)
		return
	}

	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid property id", err)
		return
	}
	lang := language(ctx.Params().Get("language"))

	var property models.Property
	if err := storage.DB.
		Preload("Agency").
		Preload("Location.Values", "language = ?", lang).
		First(&property, id).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	ctx.JSON(property)
}

// DeleteProperty removes a property, its bookings and its image file.
func DeleteProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid property id", err)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	storage.DB.Unscoped().Where("property_id = ?", property.ID).Delete(&models.Booking{})

	if property.Image != "" {
		imagePath := filepath.Join(os.Getenv("IMAGES_DIR"), property.Image)
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			log.Printf("delete property %d: removing image failed: %v", property.ID, err)
		}
	}

	if err := storage.DB.Unscoped().Delete(&property).Error; err != nil {
		utils.BadRequest(ctx, "failed to delete property", err)
		return
	}

	ctx.JSON(iris.Map{"deleted": 1})
}
