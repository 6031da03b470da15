// internal/handlers/user/user_handler.go
package user

import (
	"net/http"

	roleHandler "auth-service/internal/handlers/role"
	"auth-service/internal/pkg/response"
	roleUsecase "auth-service/internal/service/role"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler manages role assignments of users
type UserHandler struct {
	userRoles *roleUsecase.UserRoleService
	logger    *zap.Logger
}

func NewUserHandler(userRoles *roleUsecase.UserRoleService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userRoles: userRoles,
		logger:    logger,
	}
}

func (h *UserHandler) ListRoles(c *gin.Context) {
	userID, ok := roleHandler.ParseID(c, "user_id")
	if !ok {
		return
	}

	roles, err := h.userRoles.ListUserRoles(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list user roles", err)
		return
	}

	response.Success(c, http.StatusOK, "user roles", roles)
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	userID, ok := roleHandler.ParseID(c, "user_id")
	if !ok {
		return
	}
	roleID, ok := roleHandler.ParseID(c, "role_id")
	if !ok {
		return
	}

	if err := h.userRoles.Assign(c.Request.Context(), userID, roleID); err != nil {
		response.FromError(c, "failed to assign role", err)
		return
	}

	h.logger.Info("role assigned",
		zap.String("user_id", userID.String()),
		zap.String("role_id", roleID.String()),
	)
	response.Success(c, http.StatusCreated, "role assigned", nil)
}

func (h *UserHandler) RevokeRole(c *gin.Context) {
	userID, ok := roleHandler.ParseID(c, "user_id")
	if !ok {
		return
	}
	roleID, ok := roleHandler.ParseID(c, "role_id")
	if !ok {
		return
	}

	if err := h.userRoles.Revoke(c.Request.Context(), userID, roleID); err != nil {
		response.FromError(c, "failed to revoke role", err)
		return
	}

	h.logger.Info("role revoked",
		zap.String("user_id", userID.String()),
		zap.String("role_id", roleID.String()),
	)
	response.Success(c, http.StatusOK, "role revoked", nil)
}
