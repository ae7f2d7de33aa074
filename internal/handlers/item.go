package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/services"
)

type ItemHandler struct {
	itemService   services.ItemService
	queryService  services.QueryService
	accessService services.AccessService
}

func NewItemHandler(itemService services.ItemService, queryService services.QueryService, accessService services.AccessService) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		queryService:  queryService,
		accessService: accessService,
	}
}

func (ih *ItemHandler) Create(c *gin.Context) {
	access, err := currentAccess(c, ih.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.SubscriptionID = access.SubscriptionID
	item, err := ih.itemService.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"item": item})
}

func (ih *ItemHandler) Get(c *gin.Context) {
	access, err := currentAccess(c, ih.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	item, err := ih.itemService.Get(c.Request.Context(), itemID, access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (ih *ItemHandler) Update(c *gin.Context) {
	access, err := currentAccess(c, ih.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	// Scope check before mutating: the item must belong to the caller's
	// subscription.
	if _, err := ih.itemService.Get(c.Request.Context(), itemID, access.SubscriptionID); err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := ih.itemService.Update(c.Request.Context(), itemID, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (ih *ItemHandler) Delete(c *gin.Context) {
	access, err := currentAccess(c, ih.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if _, err := ih.itemService.Get(c.Request.Context(), itemID, access.SubscriptionID); err != nil {
		RespondAppError(c, err)
		return
	}
	if err := ih.itemService.Delete(c.Request.Context(), itemID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ih *ItemHandler) List(c *gin.Context) {
	access, err := currentAccess(c, ih.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	opts := services.ListOptions{
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if opts.Page, err = intQuery(c, "page", 1); err != nil {
		RespondAppError(c, err)
		return
	}
	if opts.ItemsPerPage, err = intQuery(c, "items_per_page", 0); err != nil {
		RespondAppError(c, err)
		return
	}
	filters := services.ListFilters{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		StockLevel: c.Query("stock_level"),
	}
	if raw := c.Query("should_buy"); raw != "" {
		shouldBuy, err := strconv.ParseBool(raw)
		if err != nil {
			RespondAppError(c, apperr.Validationf("invalid should_buy %q", raw))
			return
		}
		filters.ShouldBuy = &shouldBuy
	}
	result, err := ih.queryService.List(c.Request.Context(), access.SubscriptionID, opts, filters)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validationf("invalid %s %q", name, raw)
	}
	return value, nil
}
