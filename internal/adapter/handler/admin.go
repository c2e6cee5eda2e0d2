package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	dto "github.com/johnquangdev/meeting-notetaker/internal/adapter/dto/apikey"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/http/middleware"
	apikeyUsecase "github.com/johnquangdev/meeting-notetaker/internal/usecase/apikey"
)

// Admin handles API key management
type Admin struct {
	apiKeyService apikeyUsecase.Service
	logger        *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(apiKeyService apikeyUsecase.Service, logger *zap.Logger) *Admin {
	return &Admin{apiKeyService: apiKeyService, logger: logger}
}

// CreateAPIKey handles POST /admin/api-keys
// @Summary      Create an API key
// @Description  Generates a key for the external API. The raw key is only returned here.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      apikey.CreateAPIKeyRequest  true  "Key settings"
// @Success      200      {object}  apikey.CreateAPIKeyResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Router       /admin/api-keys [post]
func (h *Admin) CreateAPIKey(c echo.Context) error {
	var req dto.CreateAPIKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	out, err := h.apiKeyService.Create(c.Request().Context(), apikeyUsecase.CreateInput{
		Name:        req.Name,
		Permissions: req.Permissions,
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   userID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &dto.CreateAPIKeyResponse{
		APIKey: out.RawKey,
		Key:    presenter.ToAPIKeyResponse(out.Key),
	})
}

// ListAPIKeys handles GET /admin/api-keys
// @Summary      List API keys
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   apikey.APIKeyResponse
// @Failure      403  {object}  common.ErrorResponse
// @Router       /admin/api-keys [get]
func (h *Admin) ListAPIKeys(c echo.Context) error {
	keys, err := h.apiKeyService.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAPIKeyListResponse(keys))
}
