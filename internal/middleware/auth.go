package middleware

import (
	"strings"

	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/pkg/apperrors"
	"hireflow_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware проверяет access-токен и загружает пользователя.
// Роль берется из записи пользователя, а не из токена.
// Для websocket токен можно передать в ?token=, браузер не умеет слать заголовки при upgrade.
func AuthMiddleware(tokens *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := users.FindByID(dbFrom(c), claims.UserID)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Token for unknown user", "user_id", claims.UserID)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.RoleKey, user.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// RequireRoles - доступ только для перечисленных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := c.Get(contextkeys.RoleKey)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		if r, _ := role.(models.UserRole); !roleSet[r] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func dbFrom(c *gin.Context) *gorm.DB {
	db, _ := c.Get(string(contextkeys.DBContextKey))
	if gdb, ok := db.(*gorm.DB); ok {
		return gdb
	}
	return nil
}
