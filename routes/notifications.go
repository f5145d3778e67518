package routes

import (
	"github.com/kataras/iris/v12"

	"spotrent-server/models"
	"spotrent-server/services"
	"spotrent-server/storage"
	"spotrent-server/utils"
)

// currentUserID reads the user id stored in the request context by
// utils.UserIDFromTokenMiddleware.
func currentUserID(ctx iris.Context) (uint, bool) {
	v := ctx.Values().Get("userID")
	if v == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User ID not found in context"})
		return 0, false
	}

	userID, ok := v.(uint)
	if !ok {
		utils.CreateInternalServerError(ctx)
		return 0, false
	}
	return userID, true
}

// ListNotifications returns the caller's most recent notifications, newest
// first.
func ListNotifications(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var total int64
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, notifications, 1, len(notifications), total)
}

// MarkNotificationsRead flags all of the caller's notifications as read.
func MarkNotificationsRead(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := services.NewNotificationService().MarkRead(userID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Notifications marked as read"})
}
