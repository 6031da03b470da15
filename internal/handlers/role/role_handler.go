// internal/handlers/role/role_handler.go
package role

import (
	"net/http"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/response"
	roleUsecase "auth-service/internal/service/role"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleHandler serves role CRUD. All routes are superuser only.
type RoleHandler struct {
	roleService *roleUsecase.RoleService
	logger      *zap.Logger
}

func NewRoleHandler(roleService *roleUsecase.RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		logger:      logger,
	}
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list roles", err)
		return
	}

	response.Success(c, http.StatusOK, "roles", roles)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "role_id")
	if !ok {
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to get role", err)
		return
	}

	response.Success(c, http.StatusOK, "role", role)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req auth.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create role", err)
		return
	}

	h.logger.Info("role created", zap.String("role_id", role.ID.String()), zap.String("title", role.Title))
	response.Success(c, http.StatusCreated, "role created", role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "role_id")
	if !ok {
		return
	}

	var req auth.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update role", err)
		return
	}

	response.Success(c, http.StatusOK, "role updated", role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "role_id")
	if !ok {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete role", err)
		return
	}

	h.logger.Info("role deleted", zap.String("role_id", id.String()))
	response.Success(c, http.StatusOK, "role deleted", nil)
}

// ParseID reads a UUID path parameter, answering 400 when it is malformed.
func ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.FromError(c, "invalid "+param, xerrors.WithCause(xerrors.ErrInvalidInput, err))
		return uuid.Nil, false
	}
	return id, true
}
