package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/models"
)

// ctxKeyUser is the gin context key holding the authenticated user
const ctxKeyUser = "auth_user"

// CtxSetUser stores the authenticated user on the request context
func CtxSetUser(c *gin.Context, user *models.User) {
	c.Set(ctxKeyUser, user)
}

// CtxGetUser gets the authenticated user from the request context, or nil
// if the request carries no valid session token
func CtxGetUser(c *gin.Context) *models.User {
	value, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
