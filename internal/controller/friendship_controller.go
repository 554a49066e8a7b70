package controller

import (
	"errors"

	"github.com/Harini-0111/electronics-astra-user/internal/service"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/gin-gonic/gin"
)

type FriendshipController struct {
	FriendshipService *service.FriendshipService
}

func NewFriendshipController(friendshipService *service.FriendshipService) *FriendshipController {
	return &FriendshipController{FriendshipService: friendshipService}
}

// swagger:model FriendRequestBody
type FriendRequestBody struct {
	TargetID string `json:"targetId" binding:"required"`
}

// SendRequest godoc
// @Summary Send a friend request by public id
// @Tags friends
// @Accept  json
// @Produce  json
// @Param   body body FriendRequestBody true "target public id"
// @Success 200 {object} util.Response{data=model.FriendRequest} "pending request"
// @Failure 400 {object} util.Response "self / already friends / duplicate pending / malformed id"
// @Failure 404 {object} util.Response "no such student"
// @Security ApiKeyAuth
// @Router /api/friends/request [post]
func (c *FriendshipController) SendRequest(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var body FriendRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	targetID, err := util.ParsePublicID(body.TargetID)
	if err != nil {
		util.BadRequest(ctx, "Target id must be a 4-6 digit number")
		return
	}

	req, err := c.FriendshipService.SendRequest(claims.StudentID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSelfReference):
			util.BadRequest(ctx, "You cannot send a friend request to yourself")
		case errors.Is(err, util.ErrAlreadyFriends):
			util.BadRequest(ctx, "You are already friends")
		case errors.Is(err, util.ErrDuplicatePending):
			util.BadRequest(ctx, "A friend request is already pending")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, req)
}

// swagger:model FriendAcceptBody
type FriendAcceptBody struct {
	FromID string `json:"fromId" binding:"required"`
}

// AcceptRequest godoc
// @Summary Accept a pending friend request
// @Description Only the recipient can accept; accepting links both students
// @Tags friends
// @Accept  json
// @Produce  json
// @Param   body body FriendAcceptBody true "sender public id"
// @Success 200 {object} util.Response{data=model.Friendship} "friend edge"
// @Failure 404 {object} util.Response "no pending request"
// @Security ApiKeyAuth
// @Router /api/friends/accept [post]
func (c *FriendshipController) AcceptRequest(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var body FriendAcceptBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fromID, err := util.ParsePublicID(body.FromID)
	if err != nil {
		util.BadRequest(ctx, "Sender id must be a 4-6 digit number")
		return
	}

	edge, err := c.FriendshipService.AcceptRequest(claims.StudentID, fromID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, edge)
}

// PendingRequests godoc
// @Summary List friend requests awaiting the student
// @Tags friends
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.FriendRequest} "newest first"
// @Security ApiKeyAuth
// @Router /api/friends/requests [get]
func (c *FriendshipController) PendingRequests(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reqs, err := c.FriendshipService.PendingRequests(claims.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, reqs)
}

// Friends godoc
// @Summary List the student's friends
// @Tags friends
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.StudentSummary} "newest edge first"
// @Security ApiKeyAuth
// @Router /api/friends [get]
func (c *FriendshipController) Friends(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.Friends(claims.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, friends)
}
