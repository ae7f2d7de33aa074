package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/services"
)

type MemberHandler struct {
	memberService services.MemberService
}

func NewMemberHandler(memberService services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (mh *MemberHandler) Create(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.OwnerID = ownerID
	member, err := mh.memberService.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"member": member})
}

func (mh *MemberHandler) List(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	members, err := mh.memberService.List(c.Request.Context(), ownerID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"members": members})
}

func (mh *MemberHandler) GrantEdit(c *gin.Context) {
	mh.setEdit(c, true)
}

func (mh *MemberHandler) RevokeEdit(c *gin.Context) {
	mh.setEdit(c, false)
}

func (mh *MemberHandler) setEdit(c *gin.Context, canEdit bool) {
	ownerID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	memberUserID, err := pathUUID(c, "user_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var member interface{}
	if canEdit {
		member, err = mh.memberService.GrantEdit(c.Request.Context(), ownerID, memberUserID)
	} else {
		member, err = mh.memberService.RevokeEdit(c.Request.Context(), ownerID, memberUserID)
	}
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"member": member})
}

func (mh *MemberHandler) SetActive(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	memberUserID, err := pathUUID(c, "user_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	member, err := mh.memberService.SetActive(c.Request.Context(), ownerID, memberUserID, *req.IsActive)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"member": member})
}
