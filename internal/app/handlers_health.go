package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *App) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "User contacts"})
}

func (a *App) HandleHealthChecker(c *gin.Context) {
	health := a.db.Health()
	if health["status"] == "down" {
		writeError(c, ErrDatabaseUnreachable, nil)
		return
	}

	c.JSON(http.StatusOK, health)
}
