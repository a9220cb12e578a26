package response

import "github.com/gin-gonic/gin"

// Errors are always {"message": ...} plus the HTTP status; there are no
// structured error codes in this API.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"message": message})
}

func JSON(c *gin.Context, httpStatus int, payload interface{}) {
	c.JSON(httpStatus, payload)
}
