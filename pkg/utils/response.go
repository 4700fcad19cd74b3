package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextRequestID is the gin context key the request logger stores the
// request id under. Error envelopes echo it so a failed call can be matched
// to its log line.
const ContextRequestID = "requestID"

// SuccessResponse writes {"success": true, "data": ...} with status 200
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// ErrorResponse writes {"success": false, "error": ...}, plus request_id
// when one was assigned
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	body := gin.H{"success": false, "error": message}
	if id := c.GetString(ContextRequestID); id != "" {
		body["request_id"] = id
	}
	c.JSON(statusCode, body)
}

// AbortWithError writes the error envelope and stops the handler chain
func AbortWithError(c *gin.Context, statusCode int, message string) {
	ErrorResponse(c, statusCode, message)
	c.Abort()
}
