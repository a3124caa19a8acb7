package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

const identityKey = "identity"

// Identity middleware resolves the bearer token when present. Anonymous and
// bad-token requests proceed with no identity; endpoints that need one use
// RequireAuth.
func (s *Service) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}
		identity, err := s.Resolve(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Next()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the resolved identity or nil for anonymous callers.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}
