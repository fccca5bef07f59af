package middleware

import (
	"heartrisk/internal/profiles"

	"github.com/gin-gonic/gin"
)

const profileContextKey = "heartrisk.profile"

// ResolveProfile looks up the :profile path parameter and stores the profile
// on the context. Unknown profiles are handed to notFound, which must write
// the response; the chain is aborted either way.
func ResolveProfile(registry *profiles.Registry, notFound func(c *gin.Context, err error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := registry.Get(c.Param("profile"))
		if err != nil {
			notFound(c, err)
			c.Abort()
			return
		}
		c.Set(profileContextKey, p)
		c.Next()
	}
}

// Profile returns the profile stored by ResolveProfile, or nil.
func Profile(c *gin.Context) *profiles.Profile {
	v, ok := c.Get(profileContextKey)
	if !ok {
		return nil
	}
	p, _ := v.(*profiles.Profile)
	return p
}
