package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hello answers with a single buffered JSON body, {"Hello":"World"}.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}
