package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/middleware"
	"github.com/ecoquest/backend/internal/pkg/filestorage"
)

// UserController handles user profile operations
type UserController struct {
	userService *services.UserService
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, fileStorage filestorage.FileStorage, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// GetMe returns the authenticated user's profile
// @Summary Get own profile
// @Description Returns the caller's profile, including NGO details for organisers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromUser(user),
	})
}

// UpdateProfile updates the authenticated user's name
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromUser(user),
	})
}

// CompleteOnboarding finalizes a new user's profile
// @Summary Complete onboarding
// @Description Sets role and home location. Organisers also provide NGO details which create the NGO in the same step.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OnboardingRequest true "Onboarding data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Onboarded profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or missing NGO details"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 409 {object} dto.ErrorResponse "Onboarding already completed"
// @Router /users/me/onboarding [post]
func (c *UserController) CompleteOnboarding(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.OnboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.CompleteOnboarding(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Onboarding failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromUser(user),
	})
}

// UpdateHomeLocation changes the user's saved home location
// @Summary Update home location
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateHomeLocationRequest true "Location data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me/home-location [put]
func (c *UserController) UpdateHomeLocation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateHomeLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.UpdateHomeLocation(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromUser(user),
	})
}

// SearchLocations resolves a place query to candidate coordinates
// @Summary Search locations
// @Description Resolves a free-text place query to candidate coordinates, best match first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param query query string true "Place name to search for"
// @Param limit query int false "Maximum results" default(5)
// @Success 200 {object} dto.APIResponse{data=dto.LocationSearchResponse} "Ranked candidates"
// @Failure 400 {object} dto.ErrorResponse "Missing or too short query"
// @Failure 502 {object} dto.ErrorResponse "Geocoding provider unavailable"
// @Router /locations/search [get]
func (c *UserController) SearchLocations(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}

	var req dto.LocationSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	places, err := c.userService.SearchLocations(ctx.Request.Context(), req.Query, req.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.LocationSearchResponse{Places: places},
	})
}

// UploadPicture stores a new profile picture
// @Summary Upload profile picture
// @Description Accepts a JPEG, PNG or WebP image up to 5 MB
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.FileUploadResponse} "Stored file"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unsupported image type"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me/picture [post]
func (c *UserController) UploadPicture(ctx *gin.Context) {
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

	fileURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "profiles")
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Could not store profile picture")
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Replace the old picture before persisting the new URL
	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err == nil && user.Picture != nil {
		if err := c.fileStorage.DeleteFile(*user.Picture); err != nil {
			c.logger.Warn().Err(err).Str("file", *user.Picture).Msg("Could not delete old profile picture")
		}
	}

	if err := c.userService.UpdatePicture(ctx.Request.Context(), userID, fileURL); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FileUploadResponse{
			FileURL:  fileURL,
			FileName: fileHeader.Filename,
			FileSize: fileHeader.Size,
			MimeType: mimeType,
		},
	})
}

// GetUsers lists users for administrators
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(NORMAL, ORGANISER, ADMIN)
// @Param search query string false "Search by name or email"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	var req dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	users, pagination, err := c.userService.GetAll(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UserListResponse{
		Users:          make([]dto.UserResponse, len(users)),
		PaginationInfo: pagination,
	}
	for i := range users {
		resp.Users[i] = dto.FromUser(&users[i])
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
