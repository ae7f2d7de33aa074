package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/services"
)

type UnitHandler struct {
	lookupService services.LookupService
	accessService services.AccessService
}

func NewUnitHandler(lookupService services.LookupService, accessService services.AccessService) *UnitHandler {
	return &UnitHandler{lookupService: lookupService, accessService: accessService}
}

func (uh *UnitHandler) List(c *gin.Context) {
	access, err := currentAccess(c, uh.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	units, err := uh.lookupService.ListUnits(c.Request.Context(), access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"units": units})
}

func (uh *UnitHandler) Create(c *gin.Context) {
	access, err := currentAccess(c, uh.accessService)
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
	unit, err := uh.lookupService.CreateUnit(c.Request.Context(), access.SubscriptionID, req.Name)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"unit": unit})
}

func (uh *UnitHandler) Rename(c *gin.Context) {
	access, err := currentAccess(c, uh.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	unitID, err := pathUUID(c, "unit_id")
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
	unit, err := uh.lookupService.RenameUnit(c.Request.Context(), unitID, req.Name, access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"unit": unit})
}

func (uh *UnitHandler) Delete(c *gin.Context) {
	access, err := currentAccess(c, uh.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	unitID, err := pathUUID(c, "unit_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	result, err := uh.lookupService.DeleteUnit(c.Request.Context(), unitID, access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func (uh *UnitHandler) Cleanup(c *gin.Context) {
	access, err := currentAccess(c, uh.accessService)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	removed, err := uh.lookupService.CleanupOrphanedUnits(c.Request.Context(), access.SubscriptionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}
