package controllers

import (
	"net/http"

	"pupcare/models"
	"pupcare/services"

	"github.com/gin-gonic/gin"
)

type MemberController struct {
	Members *services.MemberService
}

func NewMemberController(members *services.MemberService) *MemberController {
	return &MemberController{Members: members}
}

// GET /puppies/:id/members
func (mc *MemberController) List(c *gin.Context) {
	out, err := mc.Members.List(c.Request.Context(), puppyIDFromCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type inviteInput struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// POST /puppies/:id/invitations
func (mc *MemberController) Invite(c *gin.Context) {
	var in inviteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	inv, err := mc.Members.Invite(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), in.Email, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// POST /invitations/:token/accept
func (mc *MemberController) Accept(c *gin.Context) {
	m, err := mc.Members.Accept(c.Request.Context(), c.Param("token"), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type roleInput struct {
	Role string `json:"role" binding:"required"`
}

// PUT /puppies/:id/members/:uid
func (mc *MemberController) UpdateRole(c *gin.Context) {
	uid, ok := uintParam(c, "uid")
	if !ok {
		return
	}
	var in roleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	m, err := mc.Members.UpdateRole(c.Request.Context(), puppyIDFromCtx(c), uid, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /puppies/:id/members/:uid
func (mc *MemberController) Remove(c *gin.Context) {
	uid, ok := uintParam(c, "uid")
	if !ok {
		return
	}
	if err := mc.Members.Remove(c.Request.Context(), puppyIDFromCtx(c), uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
