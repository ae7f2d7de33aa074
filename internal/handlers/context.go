package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/requestdata"
	"github.com/avelars/pantrylist-backend/internal/services"
)

// currentUserID returns the authenticated user's ID from the request
// context. Routes behind RequireAuth always have one.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apperr.Accessf("no authenticated user on request")
	}
	return rd.UserID, nil
}

// currentAccess returns the caller's subscription role. RequireEdit stores
// the resolved role on the gin context; read-only routes resolve it here.
func currentAccess(c *gin.Context, accessService services.AccessService) (*services.SubscriptionAccess, error) {
	if v, ok := c.Get("access"); ok {
		if access, ok := v.(*services.SubscriptionAccess); ok {
			return access, nil
		}
	}
	userID, err := currentUserID(c)
	if err != nil {
		return nil, err
	}
	return accessService.Resolve(c.Request.Context(), userID)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}
