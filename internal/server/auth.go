package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/talentbill/talentbill/internal/employerctx"
)

const employerHeader = "X-Employer-ID"

// EmployerAuth lifts the upstream-authenticated employer identity into the
// request context. The portal gateway sets the header after session
// validation; a missing or malformed value means the request never passed
// through it.
func EmployerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(employerHeader))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := employerctx.WithEmployerID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
