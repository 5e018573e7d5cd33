package hooks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/models"
	"github.com/godocompany/roomchat-api/services"
	"github.com/godocompany/roomchat-api/v1/utils"
)

func AuthWhoAmI(
	authTokensService *services.AuthTokensService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the user from the request
		user := utils.CtxGetUser(c)

		// Serialize the whoami info
		whoami, err := serializeWhoAmI(
			user,
			false,
			authTokensService,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the whoami info for this user
		c.JSON(http.StatusOK, gin.H{
			"data": whoami,
		})

	}
}

func serializeWhoAmI(
	user *models.User,
	remember bool,
	authTokensService *services.AuthTokensService,
) (map[string]interface{}, error) {

	// Return nil if the user is nil
	if user == nil {
		return nil, errors.New("something went wrong")
	}

	// Create a fresh session token for the user
	token, err := authTokensService.CreateToken(user, remember)
	if err != nil {
		return nil, err
	}

	// Return the map of whoami info
	return map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"token": token,
	}, nil
}
