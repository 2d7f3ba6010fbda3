package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/task-management-api/internal/auth"
	apierrors "github.com/taskforge/task-management-api/internal/errors"
	"github.com/taskforge/task-management-api/internal/models"
	"github.com/taskforge/task-management-api/internal/repository"
)

const contextUserKey = "current_user"

// RequireAuth validates the bearer token and loads the caller. The token
// subject is a username; a valid token whose user has since vanished is
// still a 401, and an inactive account is rejected before any handler runs.
func RequireAuth(jwtManager *auth.JWTManager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		username, err := jwtManager.Validate(token)
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		user, err := userRepo.FindByUsername(c.Request.Context(), username)
		if err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if !user.IsActive {
			apierrors.BadRequest(c, "Inactive user")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the request context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, false
	}
	return user, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
