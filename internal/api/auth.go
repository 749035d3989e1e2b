package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerAuth requires "Authorization: Bearer <secret>". An empty secret disables the check.
func bearerAuth(secret, realm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.Header("WWW-Authenticate", fmt.Sprintf(`Bearer realm=%q`, realm))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// adminAuth is bearerAuth without the open default: no secret, no access.
func adminAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		}
	}
	return bearerAuth(secret, "admin")
}
