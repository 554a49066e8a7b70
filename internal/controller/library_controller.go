package controller

import (
	"errors"
	"strconv"

	"github.com/Harini-0111/electronics-astra-user/internal/service"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/gin-gonic/gin"
)

type LibraryController struct {
	LibraryService *service.LibraryService
	StudentService *service.StudentService
}

func NewLibraryController(libraryService *service.LibraryService, studentService *service.StudentService) *LibraryController {
	return &LibraryController{
		LibraryService: libraryService,
		StudentService: studentService,
	}
}

// Upload godoc
// @Summary Upload a file to the library
// @Tags library
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "file to upload"
// @Success 201 {object} util.Response{data=model.LibraryFile} "stored file"
// @Failure 400 {object} util.Response "missing or oversized file"
// @Security ApiKeyAuth
// @Router /api/library/upload [post]
func (c *LibraryController) Upload(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if header.Size > util.MaxLibraryFileSize {
		util.BadRequest(ctx, "file exceeds the 50MB limit")
		return
	}

	owner, err := c.StudentService.GetProfile(claims.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	src, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		if contentType, err = util.DetectContentType(src); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}

	file, err := c.LibraryService.Upload(ctx.Request.Context(), owner, header.Filename, contentType, header.Size, src)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, file)
}

// List godoc
// @Summary List all library files
// @Tags library
// @Produce  json
// @Param   page query int false "page, starting at 1"
// @Param   limit query int false "page size, default 20"
// @Success 200 {object} util.Response{data=util.PageResponse} "newest first"
// @Security ApiKeyAuth
// @Router /api/library [get]
func (c *LibraryController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	files, total, err := c.LibraryService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  files,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// MyUploads godoc
// @Summary List the student's own uploads
// @Tags library
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.LibraryFile} "newest first"
// @Security ApiKeyAuth
// @Router /api/library/my-uploads [get]
func (c *LibraryController) MyUploads(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	files, err := c.LibraryService.MyUploads(claims.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, files)
}

// Download godoc
// @Summary Download a library file
// @Tags library
// @Produce  application/octet-stream
// @Param   fileId path string true "file id"
// @Success 200 {file} binary "file content"
// @Failure 404 {object} util.Response "no such file"
// @Security ApiKeyAuth
// @Router /api/library/{fileId}/download [get]
func (c *LibraryController) Download(ctx *gin.Context) {
	file, stream, err := c.LibraryService.Download(ctx.Request.Context(), ctx.Param("fileId"))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	defer stream.Close()

	ctx.DataFromReader(200, file.Size, file.ContentType, stream, map[string]string{
		"Content-Disposition": `attachment; filename="` + file.FileName + `"`,
	})
}

// Delete godoc
// @Summary Delete an owned library file
// @Description Only the uploader may delete; blob content goes before metadata
// @Tags library
// @Produce  json
// @Param   fileId path string true "file id"
// @Success 200 {object} util.Response "deleted"
// @Failure 403 {object} util.Response "not the owner"
// @Failure 404 {object} util.Response "no such file"
// @Security ApiKeyAuth
// @Router /api/library/{fileId} [delete]
func (c *LibraryController) Delete(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.LibraryService.Delete(ctx.Request.Context(), ctx.Param("fileId"), claims.StudentID)
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

	util.Success(ctx, nil)
}

// swagger:model ShareFileBody
type ShareFileBody struct {
	FileID   string `json:"fileId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// Share godoc
// @Summary Share a file with another student by public id
// @Tags library
// @Accept  json
// @Produce  json
// @Param   body body ShareFileBody true "file and target"
// @Success 200 {object} util.Response{data=model.FileShare} "grant"
// @Failure 400 {object} util.Response "already shared / malformed id"
// @Failure 404 {object} util.Response "no such file or student"
// @Security ApiKeyAuth
// @Router /api/library/share [post]
func (c *LibraryController) Share(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var body ShareFileBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	targetID, err := util.ParsePublicID(body.TargetID)
	if err != nil {
		util.BadRequest(ctx, "Target id must be a 4-6 digit number")
		return
	}

	grant, err := c.LibraryService.Share(body.FileID, claims.PublicID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyShared):
			util.BadRequest(ctx, "File already shared with this student")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, grant)
}

// SharedWithMe godoc
// @Summary List files shared with the student
// @Tags library
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.SharedFile} "newest grant first"
// @Security ApiKeyAuth
// @Router /api/library/shared-with-me [get]
func (c *LibraryController) SharedWithMe(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	shared, err := c.LibraryService.SharedWithMe(claims.PublicID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, shared)
}
