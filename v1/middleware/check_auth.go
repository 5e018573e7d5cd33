package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/services"
	"github.com/godocompany/roomchat-api/v1/utils"
)

// CheckAuth resolves the Authorization header to a user, when one is
// present and the token checks out. It never rejects the request itself,
// so public hooks work with or without a token.
func CheckAuth(
	usersService *services.UsersService,
	authTokensService *services.AuthTokensService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Pull the bearer token out of the Authorization header
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || len(token) == 0 {
			c.Next()
			return
		}

		// Resolve the token to a user
		userID, err := authTokensService.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}
		user, err := usersService.GetUserByID(userID)
		if err != nil || user == nil {
			c.Next()
			return
		}

		// Store the user on the request context
		utils.CtxSetUser(c, user)
		c.Next()

	}
}

// RequireLogin rejects requests that CheckAuth did not resolve to a user
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CtxGetUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
