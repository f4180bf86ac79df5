package middleware

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/httpx"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/policy"
)

const actorKey = "actor"

func jwtSecret() []byte {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return []byte(val)
	}
	return []byte("supersecret") // fallback
}

func tokenTTL() time.Duration {
	if val := os.Getenv("JWT_TTL_HOURS"); val != "" {
		if hours, err := strconv.Atoi(val); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return 24 * time.Hour
}

// GenerateToken issues a signed session token carrying the user id and role.
func GenerateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireAuth ensures a valid token is present and that its user still
// exists. Malformed, expired and stale-user tokens are told apart in the
// log but all collapse to the same 401 at the boundary.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			httpx.Fail(c, httpx.Unauthorized("missing or invalid Authorization header"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ParseToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				logrus.WithError(err).Debug("rejected expired token")
			case errors.Is(err, jwt.ErrTokenMalformed):
				logrus.WithError(err).Debug("rejected malformed token")
			default:
				logrus.WithError(err).Debug("rejected invalid token")
			}
			httpx.Fail(c, httpx.Unauthorized("invalid or expired token"))
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			httpx.Fail(c, httpx.Unauthorized("invalid token claims"))
			return
		}

		// Re-read the user so a deleted account or changed role
		// invalidates outstanding tokens.
		var user models.User
		if err := config.DB.First(&user, uint(userID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.WithField("user_id", uint(userID)).Debug("token for deleted user")
				httpx.Fail(c, httpx.Unauthorized("invalid or expired token"))
				return
			}
			httpx.Fail(c, err)
			return
		}

		c.Set(actorKey, policy.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the actor holds one of the roles.
// Must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		httpx.Fail(c, httpx.Forbidden("insufficient permissions"))
	}
}

// CurrentActor returns the authenticated principal set by RequireAuth.
func CurrentActor(c *gin.Context) policy.Actor {
	actor, _ := c.MustGet(actorKey).(policy.Actor)
	return actor
}
