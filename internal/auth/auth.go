package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/pkg/logger"
)

// ContextUserKey is the gin context key under which the middleware stores
// the authenticated principal's user id.
const ContextUserKey = "userID"

// Sessions is the authentication stub: login by email finds or creates the
// user record and issues an opaque bearer token. It only resolves who the
// acting principal is; every operation below the HTTP edge receives the
// principal explicitly.
type Sessions struct {
	repo   *records.Repository
	tokens *cache.Cache
	log    *logger.Logger
}

func NewSessions(repo *records.Repository, ttl time.Duration, log *logger.Logger) *Sessions {
	return &Sessions{
		repo:   repo,
		tokens: cache.New(ttl, ttl*2),
		log:    log,
	}
}

// Login finds the user with the given email, creating one if none exists,
// and issues a session token.
func (s *Sessions) Login(email string) (records.User, string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if !records.IsNotFound(err) {
			return records.User{}, "", err
		}
		created, err := s.repo.UpsertUser(records.User{
			UserID: uuid.NewString(),
			Name:   nameFromEmail(email),
			Email:  email,
		})
		if err != nil {
			return records.User{}, "", err
		}
		s.log.Info("Created user", "userID", created.UserID, "email", email)
		user = &created
	}

	token := uuid.NewString()
	s.tokens.Set(token, user.UserID, cache.DefaultExpiration)
	return *user, token, nil
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (s *Sessions) Logout(token string) {
	s.tokens.Delete(token)
}

// Resolve maps a session token to the owning user id.
func (s *Sessions) Resolve(token string) (string, bool) {
	if v, found := s.tokens.Get(token); found {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved principal in the request context.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Missing bearer token",
			})
			return
		}

		userID, ok := s.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired session",
			})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
