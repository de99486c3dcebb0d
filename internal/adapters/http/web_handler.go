package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wishkeeper/core/internal/application/services"
	"github.com/wishkeeper/core/internal/domain/entities"
	"github.com/wishkeeper/core/internal/infrastructure/logger"
	"github.com/wishkeeper/core/internal/ports"
)

// PlaceholderURL is shown for items without an image, served from the
// embedded static files.
const PlaceholderURL = "/static/placeholder.svg"

// WebHandler serves the server-rendered owner and public pages
type WebHandler struct {
	wishlistService *services.WishlistService
	logger          *logger.Logger
}

// NewWebHandler creates a new web handler
func NewWebHandler(wishlistService *services.WishlistService, logger *logger.Logger) *WebHandler {
	return &WebHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// ItemView is an item prepared for template rendering
type ItemView struct {
	ID        string
	Name      string
	Link      string
	Notes     string
	NotesHTML template.HTML
	Image     string
	HasImage  bool
	Purchased bool
}

type wishlistPageData struct {
	Items          []ItemView
	PlaceholderURL string
}

type publicPageData struct {
	Wanted         []ItemView
	Reserved       []ItemView
	PlaceholderURL string
}

func (h *WebHandler) itemsToViews(items []*entities.Item) []ItemView {
	views := make([]ItemView, len(items))
	for i, item := range items {
		view := ItemView{
			ID:        item.ID.String(),
			Name:      item.Name,
			Link:      item.Link,
			Notes:     item.Notes,
			NotesHTML: template.HTML(h.wishlistService.RenderNotes(item.Notes)),
			HasImage:  item.HasImage(),
			Purchased: item.Purchased,
		}
		if view.HasImage {
			view.Image = *item.Image
		} else {
			view.Image = PlaceholderURL
		}
		views[i] = view
	}
	return views
}

// Wishlist handles GET / (owner view with the add form)
func (h *WebHandler) Wishlist(c echo.Context) error {
	items, err := h.wishlistService.ListItems(c.Request().Context(), ports.ItemFilter{})
	if err != nil {
		h.logger.Error("Render wishlist failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load wishlist")
	}

	return c.Render(http.StatusOK, "wishlist.html", wishlistPageData{
		Items:          h.itemsToViews(items),
		PlaceholderURL: PlaceholderURL,
	})
}

// AddItem handles POST / (owner form submit)
func (h *WebHandler) AddItem(c echo.Context) error {
	var req ports.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.wishlistService.CreateItem(c.Request().Context(), req); err != nil {
		if errors.Is(err, entities.ErrInvalidItem) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Add item failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add item")
	}

	return c.Redirect(http.StatusFound, "/")
}

// DeleteItem handles GET /delete/:id. An unknown or malformed id is a
// no-op; the redirect back to the list proceeds either way.
func (h *WebHandler) DeleteItem(c echo.Context) error {
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		if err := h.wishlistService.DeleteItem(c.Request().Context(), id); err != nil && !errors.Is(err, entities.ErrItemNotFound) {
			h.logger.Error("Delete item failed", "error", err, "item_id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete item")
		}
	}
	return c.Redirect(http.StatusFound, "/")
}

// PublicList handles GET /public (gift-giver view, partitioned by purchased)
func (h *WebHandler) PublicList(c echo.Context) error {
	parts, err := h.wishlistService.PartitionItems(c.Request().Context())
	if err != nil {
		h.logger.Error("Render public list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load wishlist")
	}

	return c.Render(http.StatusOK, "public_list.html", publicPageData{
		Wanted:         h.itemsToViews(parts.Wanted),
		Reserved:       h.itemsToViews(parts.Reserved),
		PlaceholderURL: PlaceholderURL,
	})
}

// ReserveItem handles GET /reserve/:id
func (h *WebHandler) ReserveItem(c echo.Context) error {
	return h.setReserved(c, true)
}

// UnreserveItem handles GET /unreserve/:id
func (h *WebHandler) UnreserveItem(c echo.Context) error {
	return h.setReserved(c, false)
}

func (h *WebHandler) setReserved(c echo.Context, reserved bool) error {
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		var svcErr error
		if reserved {
			_, svcErr = h.wishlistService.ReserveItem(c.Request().Context(), id)
		} else {
			_, svcErr = h.wishlistService.UnreserveItem(c.Request().Context(), id)
		}
		if svcErr != nil && !errors.Is(svcErr, entities.ErrItemNotFound) {
			h.logger.Error("Change reservation failed", "error", svcErr, "item_id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change reservation")
		}
	}
	return c.Redirect(http.StatusFound, "/public")
}

// LegacyRedirect handles the old /wishlist and /add URLs
func (h *WebHandler) LegacyRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}
