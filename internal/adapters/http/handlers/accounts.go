package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/app"
	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// AccountHandler exposes the seven provisioning operations over HTTP.
type AccountHandler struct {
	service *app.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service *app.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /api/v1/accounts.
//
// @Summary Provision a website builder account
// @Tags accounts
// @Accept json
// @Produce json
// @Param body body dto.CreateAccountRequest true "Account to create"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindBody(c, &req) {
		return
	}

	info, err := h.service.Create(c.Request.Context(), req.ToParams())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAccountResponse(h.service.Provider(), info))
}

// GetInfo handles GET /api/v1/accounts/:reference.
//
// package_reference is what the vendor reports for the account, which is
// not always the reference the caller assigned: Weebly returns the plan
// name and Yola its planID.
//
// @Summary Read the live account state
// @Tags accounts
// @Produce json
// @Param reference path string true "Account reference"
// @Param domain_name query string false "Domain name"
// @Param site_builder_user_id query string false "Vendor user id"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/accounts/{reference} [get]
func (h *AccountHandler) GetInfo(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	h.respond(c, http.StatusOK)(h.service.GetInfo(c.Request.Context(), id))
}

// Login handles POST /api/v1/accounts/:reference/login.
//
// @Summary Issue a control panel login link
// @Tags accounts
// @Produce json
// @Param reference path string true "Account reference"
// @Success 200 {object} dto.LoginResponse
// @Router /api/v1/accounts/{reference}/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	result, err := h.service.Login(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Provider: h.service.Provider(),
		LoginURL: result.LoginURL,
	})
}

// ChangePackage handles PUT /api/v1/accounts/:reference/package.
//
// @Summary Move the account to another package
// @Tags accounts
// @Accept json
// @Produce json
// @Param reference path string true "Account reference"
// @Param body body dto.ChangePackageRequest true "Target package"
// @Success 200 {object} dto.AccountResponse
// @Router /api/v1/accounts/{reference}/package [put]
func (h *AccountHandler) ChangePackage(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	var req dto.ChangePackageRequest
	if !bindBody(c, &req) {
		return
	}

	h.respond(c, http.StatusOK)(h.service.ChangePackage(c.Request.Context(), req.ToParams(id)))
}

// Suspend handles POST /api/v1/accounts/:reference/suspend.
//
// @Summary Suspend the account
// @Tags accounts
// @Produce json
// @Param reference path string true "Account reference"
// @Success 200 {object} dto.AccountResponse
// @Router /api/v1/accounts/{reference}/suspend [post]
func (h *AccountHandler) Suspend(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	h.respond(c, http.StatusOK)(h.service.Suspend(c.Request.Context(), id))
}

// UnSuspend handles POST /api/v1/accounts/:reference/unsuspend. The body
// names the package to restore alongside the suspension state.
//
// @Summary Re-enable a suspended account
// @Tags accounts
// @Accept json
// @Produce json
// @Param reference path string true "Account reference"
// @Param body body dto.UnSuspendRequest true "Package to restore"
// @Success 200 {object} dto.AccountResponse
// @Router /api/v1/accounts/{reference}/unsuspend [post]
func (h *AccountHandler) UnSuspend(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	var req dto.UnSuspendRequest
	if !bindBody(c, &req) {
		return
	}

	h.respond(c, http.StatusOK)(h.service.UnSuspend(c.Request.Context(), req.ToParams(id)))
}

// Terminate handles DELETE /api/v1/accounts/:reference.
//
// @Summary Permanently remove the account
// @Tags accounts
// @Produce json
// @Param reference path string true "Account reference"
// @Success 200 {object} dto.TerminateResponse
// @Router /api/v1/accounts/{reference} [delete]
func (h *AccountHandler) Terminate(c *gin.Context) {
	id, ok := bindIdentifier(c)
	if !ok {
		return
	}

	result, err := h.service.Terminate(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TerminateResponse{
		Provider: h.service.Provider(),
		Message:  result.Message,
	})
}

// RegisterAccountRoutes registers the account routes on the given router group.
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.POST("", h.Create)
	accounts.GET("/:reference", h.GetInfo)
	accounts.DELETE("/:reference", h.Terminate)
	accounts.POST("/:reference/login", h.Login)
	accounts.PUT("/:reference/package", h.ChangePackage)
	accounts.POST("/:reference/suspend", h.Suspend)
	accounts.POST("/:reference/unsuspend", h.UnSuspend)
}

// respond returns a sink for an account-returning service call.
func (h *AccountHandler) respond(c *gin.Context, status int) func(*domain.AccountInfo, error) {
	return func(info *domain.AccountInfo, err error) {
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		c.JSON(status, dto.NewAccountResponse(h.service.Provider(), info))
	}
}

// bindIdentifier reads the path reference and the identifier query.
func bindIdentifier(c *gin.Context) (domain.AccountIdentifier, bool) {
	var q dto.AccountQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		abortWithBindError(c, err)
		return domain.AccountIdentifier{}, false
	}

	return q.Identifier(c.Param("reference")), true
}

func bindBody(c *gin.Context, v any) bool {
	if err := dto.BindAndValidate(c, v); err != nil {
		abortWithBindError(c, err)
		return false
	}

	return true
}

func abortWithBindError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrValidation) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	dto.AbortWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request: "+err.Error())
}
