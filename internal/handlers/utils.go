package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPUserInfo struct {
	UserID string
	Email  string
}

func ExtractUserInfo(c *gin.Context) (HTTPUserInfo, bool) {
	userID := c.GetString("userID") // From JWT middleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return HTTPUserInfo{}, false
	}
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return HTTPUserInfo{}, false
	}

	return HTTPUserInfo{UserID: userID, Email: email}, true
}
