package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/services"
)

type CategoryHandler struct {
	lookupService services.LookupService
	accessService services.AccessService
}

func NewCategoryHandler(lookupService services.LookupService, accessService services.AccessService) *CategoryHandler {
	return &CategoryHandler{lookupService: lookupService, accessService: accessService}
}

func (ch *CategoryHandler) List(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	categories, err := ch.lookupService.ListCategories(c.Request.Context(), access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

func (ch *CategoryHandler) Create(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := ch.lookupService.CreateCategory(c.Request.Context(), access.SubscriptionID, req.Name)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"category": category})
}

func (ch *CategoryHandler) BulkCreate(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req struct {
		Names []string `json:"names"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, existing, err := ch.lookupService.BulkCreateCategories(c.Request.Context(), access.SubscriptionID, req.Names)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"created": created, "existing": existing})
}

func (ch *CategoryHandler) Rename(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	categoryID, err := pathUUID(c, "category_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := ch.lookupService.RenameCategory(c.Request.Context(), categoryID, req.Name, access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Delete(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	categoryID, err := pathUUID(c, "category_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	result, err := ch.lookupService.DeleteCategory(c.Request.Context(), categoryID, access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CategoryHandler) Cleanup(c *gin.Context) {
	access, err := currentAccess(c, ch.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	removed, err := ch.lookupService.CleanupOrphanedCategories(c.Request.Context(), access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}
