package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"echo-me/config"
	"echo-me/dto"
	"echo-me/internal/middleware"
	"echo-me/internal/services"
)

type NotificationHandler struct {
	Notis    *services.NotificationService
	Timeout  time.Duration
	PageSize int
}

// @Summary      List notifications
// @Description  The caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number" minimum(1) default(1)
// @Param        limit  query     int  false  "Page size" minimum(1) maximum(100) default(20)
// @Success      200    {object}  services.NotificationPage
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	me, _ := middleware.UIDObjectID(c)
	def := h.PageSize
	if def <= 0 {
		def = config.DefaultNotificationLimit
	}
	limit := config.ClampLimit(c.QueryInt("limit", def), def, config.MaxNotificationLimit)
	page := c.QueryInt("page", 1)

	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	res, err := h.Notis.List(ctx, me, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// @Summary      Unread count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UnreadCountResp
// @Router       /api/notifications/unread [get]
func (h *NotificationHandler) Unread(c *fiber.Ctx) error {
	me, _ := middleware.UIDObjectID(c)
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	n, err := h.Notis.UnreadCount(ctx, me)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UnreadCountResp{Count: n})
}

// @Summary      Mark all as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MarkAllReadResp
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) ReadAll(c *fiber.Ctx) error {
	me, _ := middleware.UIDObjectID(c)
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	n, err := h.Notis.MarkAllRead(ctx, me)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MarkAllReadResp{Updated: n})
}

// @Summary      Mark one as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  models.Notification
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) Read(c *fiber.Ctx) error {
	me, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	n, err := h.Notis.MarkRead(ctx, me, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(n)
}

// @Summary      Delete notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	me, _ := middleware.UIDObjectID(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	if err := h.Notis.Delete(ctx, me, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notification deleted"})
}
