package api

import (
	"errors"
	"net/http"
	"time"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlagHandler holds the flag service dependency. All routes behind it
// require the admin role.
type FlagHandler struct {
	flagService service.FlagService
}

// NewFlagHandler creates a new FlagHandler.
func NewFlagHandler(flagService service.FlagService) *FlagHandler {
	return &FlagHandler{flagService: flagService}
}

// --- DTOs ---

// UpdateFlagRequest defines the expected JSON for writing a flag's
// configuration.
type UpdateFlagRequest struct {
	IsEnabled             bool              `json:"isEnabled"`
	RolloutPercentage     int               `json:"rolloutPercentage" binding:"min=0,max=100"`
	AdminOverrideEnabled  bool              `json:"adminOverrideEnabled"`
	AdminOverrideDisabled bool              `json:"adminOverrideDisabled"`
	Metadata              map[string]string `json:"metadata"`
}

// SetOverrideRequest defines the expected JSON for a per-user override.
type SetOverrideRequest struct {
	IsEnabled bool   `json:"isEnabled"`
	Reason    string `json:"reason"`
}

// FlagResponse is the DTO for returning flag state.
type FlagResponse struct {
	Name                  string            `json:"name"`
	IsEnabled             bool              `json:"isEnabled"`
	RolloutPercentage     int               `json:"rolloutPercentage"`
	AdminOverrideEnabled  bool              `json:"adminOverrideEnabled"`
	AdminOverrideDisabled bool              `json:"adminOverrideDisabled"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

func mapFlagToResponse(flag *domain.FeatureFlag) FlagResponse {
	if flag == nil {
		return FlagResponse{}
	}
	return FlagResponse{
		Name:                  flag.Name,
		IsEnabled:             flag.IsEnabled,
		RolloutPercentage:     flag.RolloutPercentage,
		AdminOverrideEnabled:  flag.AdminOverrideEnabled,
		AdminOverrideDisabled: flag.AdminOverrideDisabled,
		Metadata:              flag.Metadata,
		UpdatedAt:             flag.UpdatedAt,
	}
}

// --- Handler Methods ---

// ListFlags returns the current status of all flags.
func (h *FlagHandler) ListFlags(c *gin.Context) {
	flagList, err := h.flagService.ListFlags(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list flags.")
		return
	}
	responses := make([]FlagResponse, len(flagList))
	for i := range flagList {
		responses[i] = mapFlagToResponse(&flagList[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetFlag returns one flag's configuration by name.
func (h *FlagHandler) GetFlag(c *gin.Context) {
	flag, err := h.flagService.GetFlag(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrFlagNotFound) {
			abortWithError(c, http.StatusNotFound, "Feature flag not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve flag.")
		return
	}
	c.JSON(http.StatusOK, mapFlagToResponse(flag))
}

// UpdateFlag upserts a flag's configuration by name.
func (h *FlagHandler) UpdateFlag(c *gin.Context) {
	var req UpdateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	flag, err := h.flagService.UpdateFlag(c.Request.Context(), c.Param("name"), service.FlagUpdate{
		IsEnabled:             req.IsEnabled,
		RolloutPercentage:     req.RolloutPercentage,
		AdminOverrideEnabled:  req.AdminOverrideEnabled,
		AdminOverrideDisabled: req.AdminOverrideDisabled,
		Metadata:              req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRollout),
			errors.Is(err, service.ErrConflictingOverrides),
			errors.Is(err, service.ErrFlagNameRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update flag.")
		}
		return
	}

	c.JSON(http.StatusOK, mapFlagToResponse(flag))
}

// SetUserOverride writes a per-user exception for a flag.
func (h *FlagHandler) SetUserOverride(c *gin.Context) {
	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	err = h.flagService.SetUserOverride(c.Request.Context(), userID, c.Param("name"), req.IsEnabled, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFlagNameRequired),
			errors.Is(err, service.ErrOverrideUserIDRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to set override.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ClearUserOverride removes a per-user exception for a flag.
func (h *FlagHandler) ClearUserOverride(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	if err := h.flagService.ClearUserOverride(c.Request.Context(), userID, c.Param("name")); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to clear override.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
