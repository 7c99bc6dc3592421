package middleware

import (
	"github.com/gin-gonic/gin"
)

const adminRealm = "cyoa-admin"

// AdminBasicAuth guards the admin routes with a single account.
func AdminBasicAuth(user, password string) gin.HandlerFunc {
	return gin.BasicAuthForRealm(gin.Accounts{user: password}, adminRealm)
}
