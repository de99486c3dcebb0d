package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wishkeeper/core/internal/application/services"
	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/logger"
	"github.com/wishkeeper/core/internal/ports"
)

// ItemHandler handles the JSON API for wishlist items
type ItemHandler struct {
	wishlistService *services.WishlistService
	logger          *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(wishlistService *services.WishlistService, logger *logger.Logger) *ItemHandler {
	return &ItemHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(c echo.Context) error {
	filter := ports.ItemFilter{}
	if purchased := c.QueryParam("purchased"); purchased != "" {
		v := purchased == "true"
		filter.Purchased = &v
	}

	items, err := h.wishlistService.ListItems(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List items failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list items")
	}

	total, err := h.wishlistService.CountItems(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Count items failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count items")
	}

	return c.JSON(http.StatusOK, ListItemsResponse{Items: items, Total: total})
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req ports.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.wishlistService.CreateItem(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidItem) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Create item failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create item")
	}

	return c.JSON(http.StatusCreated, item)
}

// GetItem handles GET /api/v1/items/:id
func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	item, err := h.wishlistService.GetItem(c.Request().Context(), id)
	if errors.Is(err, entities.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		h.logger.Error("Get item failed", "error", err, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get item")
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /api/v1/items/:id
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var req ports.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.wishlistService.UpdateItem(c.Request().Context(), id, req)
	if errors.Is(err, entities.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		if errors.Is(err, entities.ErrInvalidItem) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Update item failed", "error", err, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update item")
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/items/:id
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	err = h.wishlistService.DeleteItem(c.Request().Context(), id)
	if errors.Is(err, entities.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		h.logger.Error("Delete item failed", "error", err, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete item")
	}

	return c.NoContent(http.StatusNoContent)
}

// ReserveItem handles POST /api/v1/items/:id/reserve
func (h *ItemHandler) ReserveItem(c echo.Context) error {
	return h.setReserved(c, true)
}

// UnreserveItem handles POST /api/v1/items/:id/unreserve
func (h *ItemHandler) UnreserveItem(c echo.Context) error {
	return h.setReserved(c, false)
}

func (h *ItemHandler) setReserved(c echo.Context, reserved bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var item *entities.Item
	if reserved {
		item, err = h.wishlistService.ReserveItem(c.Request().Context(), id)
	} else {
		item, err = h.wishlistService.UnreserveItem(c.Request().Context(), id)
	}
	if errors.Is(err, entities.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		h.logger.Error("Change reservation failed", "error", err, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change reservation")
	}

	return c.JSON(http.StatusOK, item)
}
