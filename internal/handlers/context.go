// internal/handlers/context.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/utils"
)

// actorFromContext rebuilds the typed actor from the claims the auth
// middleware stored on the request.
func actorFromContext(c *gin.Context) (models.Actor, error) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return models.Actor{}, errors.New("missing authenticated user")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return models.Actor{}, errors.New("invalid user id in token")
	}

	role, exists := utils.GetUserRoleFromContext(c)
	if !exists {
		return models.Actor{}, errors.New("missing role in token")
	}

	return models.Actor{
		ID:   userID,
		Role: models.UserRole(role),
	}, nil
}
