package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/v1/utils"
)

func AppState() gin.HandlerFunc {
	return func(c *gin.Context) {

		// Return the app state, including whether the caller's token
		// resolved to a user
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"logged_in": utils.CtxGetUser(c) != nil,
			},
		})

	}
}
