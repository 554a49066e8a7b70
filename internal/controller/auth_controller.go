package controller

import (
	"errors"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/service"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines the registration payload.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

// Register godoc
// @Summary Register a new student
// @Description Creates an unverified account and emails a one-time code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "registration form"
// @Success 201 {object} util.Response{data=object} "created"
// @Failure 400 {object} util.Response "bad request"
// @Failure 409 {object} util.Response "email already registered"
// @Failure 500 {object} util.Response "internal error"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(util.DateFormat, req.DateOfBirth)
		if err != nil {
			util.BadRequest(ctx, "date_of_birth must be YYYY-MM-DD")
			return
		}
		in.DateOfBirth = &dob
	}

	student, err := c.AuthService.Register(in)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(ctx, "Email already registered")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"id":         student.ID,
		"name":       student.Name,
		"email":      student.Email,
		"isVerified": student.IsVerified,
	})
}

// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// VerifyOTP godoc
// @Summary Verify the registration OTP
// @Description Marks the account verified and assigns its public id
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body VerifyOTPRequest true "email and code"
// @Success 200 {object} util.Response{data=object} "verified"
// @Failure 400 {object} util.Response "invalid or expired OTP"
// @Router /api/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.AuthService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidOTP):
			util.BadRequest(ctx, "Invalid or expired OTP")
		case errors.Is(err, util.ErrAllocationExhausted):
			util.Error(ctx, 503, "Could not assign a student id, try again later")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":         student.ID,
		"name":       student.Name,
		"email":      student.Email,
		"publicId":   student.PublicID,
		"isVerified": student.IsVerified,
	})
}

// swagger:model ResendOTPRequest
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendOTP godoc
// @Summary Resend the registration OTP
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ResendOTPRequest true "email"
// @Success 200 {object} util.Response "sent"
// @Failure 400 {object} util.Response "already verified"
// @Failure 404 {object} util.Response "unknown email"
// @Router /api/resend-otp [post]
func (c *AuthController) ResendOTP(ctx *gin.Context) {
	var req ResendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResendOTP(req.Email); err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyVerified):
			util.BadRequest(ctx, "Email already verified")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Description Emails a one-time code that authorizes a password reset
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "email"
// @Success 200 {object} util.Response "sent"
// @Failure 403 {object} util.Response "email not verified"
// @Failure 404 {object} util.Response "unknown email"
// @Router /api/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(req.Email); err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotVerified):
			util.Error(ctx, 403, "Please verify your email first")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// swagger:model CheckResetOTPRequest
type CheckResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// CheckResetOTP godoc
// @Summary Validate a password reset code
// @Description Checks the code without consuming it
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body CheckResetOTPRequest true "email and code"
// @Success 200 {object} util.Response "valid"
// @Failure 400 {object} util.Response "invalid or expired code"
// @Router /api/check-reset-otp [post]
func (c *AuthController) CheckResetOTP(ctx *gin.Context) {
	var req CheckResetOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.CheckResetOTP(req.Email, req.OTP); err != nil {
		if errors.Is(err, util.ErrInvalidOTP) {
			util.BadRequest(ctx, "Invalid or expired OTP")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary Reset the password with an emailed code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "email, code, new password"
// @Success 200 {object} util.Response "password changed"
// @Failure 400 {object} util.Response "invalid or expired code"
// @Router /api/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		if errors.Is(err, util.ErrInvalidOTP) {
			util.BadRequest(ctx, "Invalid or expired OTP")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials of a verified account and returns a token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=object} "token"
// @Failure 401 {object} util.Response "invalid credentials"
// @Failure 403 {object} util.Response "email not verified"
// @Failure 503 {object} util.Response "could not assign a student id"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, student, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, 401, "Invalid email or password")
		case errors.Is(err, util.ErrNotVerified):
			util.Error(ctx, 403, "Please verify your email first")
		case errors.Is(err, util.ErrAllocationExhausted):
			util.Error(ctx, 503, "Could not assign a student id, try again later")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token":    token,
		"id":       student.ID,
		"name":     student.Name,
		"email":    student.Email,
		"publicId": student.PublicID,
	})
}
