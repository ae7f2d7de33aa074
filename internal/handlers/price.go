package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avelars/pantrylist-backend/internal/services"
)

type PriceHandler struct {
	priceService  services.PriceService
	itemService   services.ItemService
	accessService services.AccessService
}

func NewPriceHandler(priceService services.PriceService, itemService services.ItemService, accessService services.AccessService) *PriceHandler {
	return &PriceHandler{
		priceService:  priceService,
		itemService:   itemService,
		accessService: accessService,
	}
}

// scopedItem verifies the item in the path belongs to the caller's
// subscription before any price mutation.
func (ph *PriceHandler) scopedItem(c *gin.Context) (uuid.UUID, bool) {
	access, err := currentAccess(c, ph.accessService)
	if err != nil {
		RespondAppError(c, err)
		return uuid.Nil, false
	}
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		RespondAppError(c, err)
		return uuid.Nil, false
	}
	if _, err := ph.itemService.Get(c.Request.Context(), itemID, access.SubscriptionID); err != nil {
		RespondAppError(c, err)
		return uuid.Nil, false
	}
	return itemID, true
}

func (ph *PriceHandler) Add(c *gin.Context) {
	itemID, ok := ph.scopedItem(c)
	if !ok {
		return
	}
	var req services.PriceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	price, err := ph.priceService.Add(c.Request.Context(), itemID, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"price": price})
}

func (ph *PriceHandler) Update(c *gin.Context) {
	itemID, ok := ph.scopedItem(c)
	if !ok {
		return
	}
	priceID, err := pathUUID(c, "price_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	price, err := ph.priceService.Update(c.Request.Context(), itemID, priceID, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"price": price})
}

func (ph *PriceHandler) Delete(c *gin.Context) {
	itemID, ok := ph.scopedItem(c)
	if !ok {
		return
	}
	priceID, err := pathUUID(c, "price_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := ph.priceService.Delete(c.Request.Context(), itemID, priceID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
