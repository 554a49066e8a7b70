package controller

import (
	"errors"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/service"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
	AuthService    *service.AuthService
}

func NewStudentController(studentService *service.StudentService, authService *service.AuthService) *StudentController {
	return &StudentController{
		StudentService: studentService,
		AuthService:    authService,
	}
}

// GetProfile godoc
// @Summary Get the logged-in student's profile
// @Tags student
// @Produce  json
// @Success 200 {object} util.Response{data=model.Student} "profile"
// @Failure 401 {object} util.Response "unauthorized"
// @Security ApiKeyAuth
// @Router /api/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	student, err := c.StudentService.GetProfile(claims.StudentID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, student)
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Description Only the provided fields change
// @Tags student
// @Accept  json
// @Produce  json
// @Param   body body UpdateProfileRequest true "fields to update"
// @Success 200 {object} util.Response{data=model.Student} "updated profile"
// @Failure 400 {object} util.Response "bad request"
// @Security ApiKeyAuth
// @Router /api/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in := service.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(util.DateFormat, *req.DateOfBirth)
		if err != nil {
			util.BadRequest(ctx, "date_of_birth must be YYYY-MM-DD")
			return
		}
		in.DateOfBirth = &dob
	}

	student, err := c.StudentService.UpdateProfile(claims.StudentID, in)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, student)
}

// DeleteAccount godoc
// @Summary Delete the logged-in student's account
// @Description Removes the account, its friend edges, its requests, and its share grants
// @Tags student
// @Produce  json
// @Success 200 {object} util.Response "deleted"
// @Security ApiKeyAuth
// @Router /api/profile [delete]
func (c *StudentController) DeleteAccount(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.StudentService.DeleteAccount(claims.StudentID); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deletedStudentId": claims.StudentID})
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags student
// @Accept  json
// @Produce  json
// @Param   body body ChangePasswordRequest true "old and new password"
// @Success 200 {object} util.Response "changed"
// @Failure 401 {object} util.Response "wrong old password"
// @Security ApiKeyAuth
// @Router /api/change-password [put]
func (c *StudentController) ChangePassword(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(claims.StudentID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, 401, "Old password is incorrect")
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// SessionStatus godoc
// @Summary Report whether the caller is logged in
// @Tags student
// @Produce  json
// @Success 200 {object} util.Response{data=object} "status"
// @Router /api/session-status [get]
func (c *StudentController) SessionStatus(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Success(ctx, gin.H{"loggedIn": false})
		return
	}

	util.Success(ctx, gin.H{
		"loggedIn": true,
		"student": gin.H{
			"id":       claims.StudentID,
			"publicId": claims.PublicID,
			"email":    claims.Email,
		},
	})
}

// FriendProfile godoc
// @Summary View a friend's public profile by public id
// @Tags student
// @Produce  json
// @Param   publicId path string true "friend's public id"
// @Success 200 {object} util.Response{data=model.StudentSummary} "profile"
// @Failure 400 {object} util.Response "malformed public id"
// @Failure 403 {object} util.Response "not friends"
// @Failure 404 {object} util.Response "no such student"
// @Security ApiKeyAuth
// @Router /api/friend-profile/{publicId} [get]
func (c *StudentController) FriendProfile(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	publicID, err := util.ParsePublicID(ctx.Param("publicId"))
	if err != nil {
		util.BadRequest(ctx, "Public id must be a 4-6 digit number")
		return
	}

	summary, err := c.StudentService.FriendProfile(claims.StudentID, publicID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrForbidden):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, summary)
}
