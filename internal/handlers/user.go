package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) Details(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	user, err := uh.userService.GetDetails(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

func (uh *UserHandler) Subscription(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	details, err := uh.userService.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"subscription": details})
}
