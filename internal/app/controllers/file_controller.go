package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/filestorage"
)

// FileController handles proof image uploads. Stored URLs are referenced
// from participation submissions.
type FileController struct {
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(fileStorage filestorage.FileStorage, logger zerolog.Logger) *FileController {
	return &FileController{
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// UploadImage stores an image and returns its URL
// @Summary Upload image
// @Description Accepts a JPEG, PNG or WebP image up to 5 MB and returns its served URL
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} dto.APIResponse{data=dto.FileUploadResponse} "Stored file"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported image type"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /files [post]
func (c *FileController) UploadImage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Image file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	mimeType, err := filestorage.ValidateImage(fileHeader)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unsupported image")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "submissions")
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Could not store image")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Could not store image")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FileUploadResponse{
			FileURL:  fileURL,
			FileName: fileHeader.Filename,
			FileSize: fileHeader.Size,
			MimeType: mimeType,
		},
	})
}
