package middleware

import "github.com/gin-gonic/gin"

// callerIDKey is the key used to store the caller identity in the Gin context.
const callerIDKey = contextKey("callerID")

// CallerIDHeader carries the opaque caller identity supplied by the
// surrounding system. Its semantics (authentication, roles) are not
// interpreted here.
const CallerIDHeader = "X-Caller-ID"

// CallerIdentityMiddleware copies the caller identity header into the Gin
// context, defaulting to "anonymous" when absent.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetHeader(CallerIDHeader)
		if callerID == "" {
			callerID = "anonymous"
		}
		c.Set(string(callerIDKey), callerID)
		c.Next()
	}
}

// GetCallerIDFromContext retrieves the caller identity from the Gin context.
func GetCallerIDFromContext(c *gin.Context) string {
	callerID, exists := c.Get(string(callerIDKey))
	if !exists {
		return "anonymous"
	}
	id, ok := callerID.(string)
	if !ok || id == "" {
		return "anonymous"
	}
	return id
}
