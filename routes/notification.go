package routes

import (
	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/services"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetNotificationCounter returns the user's unread counter, creating it
// lazily on first access.
func GetNotificationCounter(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}

	var counter models.NotificationCounter
	if err := storage.DB.
		Where(models.NotificationCounter{UserID: userID}).
		FirstOrCreate(&counter).Error; err != nil {
		utils.BadRequest(ctx, "failed to load notification counter", err)
		return
	}

	ctx.JSON(counter)
}

// GetNotifications lists a user's notifications newest first, paginated
// in the faceted shape.
func GetNotifications(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}
	page := ctx.Params().GetIntDefault("page", 1)
	size := ctx.Params().GetIntDefault("size", 10)

	query := storage.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.BadRequest(ctx, "failed to count notifications", err)
		return
	}

	var notifications []models.Notification
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&notifications).Error; err != nil {
		utils.BadRequest(ctx, "failed to load notifications", err)
		return
	}

	utils.JSONFacet(ctx, notifications, total)
}

type notificationIDsRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

// MarkNotificationsAsRead flips the requested notifications to read and
// decrements the counter by the number of rows that actually changed;
// ids already read do not move the counter.
func MarkNotificationsAsRead(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}

	var req notificationIDsRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	res := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, req.IDs, false).
		Update("is_read", true)
	if res.Error != nil {
		utils.BadRequest(ctx, "failed to mark notifications as read", res.Error)
		return
	}

	if err := services.IncrementCounter(userID, -res.RowsAffected); err != nil {
		utils.BadRequest(ctx, "failed to update notification counter", err)
		return
	}

	ctx.JSON(iris.Map{"marked": res.RowsAffected})
}

// MarkNotificationsAsUnread is the inverse of MarkNotificationsAsRead.
func MarkNotificationsAsUnread(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}

	var req notificationIDsRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	res := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, req.IDs, true).
		Update("is_read", false)
	if res.Error != nil {
		utils.BadRequest(ctx, "failed to mark notifications as unread", res.Error)
		return
	}

	if err := services.IncrementCounter(userID, res.RowsAffected); err != nil {
		utils.BadRequest(ctx, "failed to update notification counter", err)
		return
	}

	ctx.JSON(iris.Map{"marked": res.RowsAffected})
}

// DeleteNotifications removes the requested notifications; the counter
// drops only by the deleted rows that were still unread.
func DeleteNotifications(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}

	var req notificationIDsRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var unread int64
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, req.IDs, false).
		Count(&unread).Error; err != nil {
		utils.BadRequest(ctx, "failed to count unread notifications", err)
		return
	}

	res := storage.DB.
		Where("user_id = ? AND id IN ?", userID, req.IDs).
		Delete(&models.Notification{})
	if res.Error != nil {
		utils.BadRequest(ctx, "failed to delete notifications", res.Error)
		return
	}

	if err := services.IncrementCounter(userID, -unread); err != nil {
		utils.BadRequest(ctx, "failed to update notification counter", err)
		return
	}

	ctx.JSON(iris.Map{"deleted": res.RowsAffected})
}
