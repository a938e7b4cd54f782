package middlewares

import (
	"log"

	"github.com/gin-gonic/gin"
)

// HttpError logs an error and writes an HTTP error response to the client.
// The log line carries the wrapped cause; the client only sees the message.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	c.JSON(status, gin.H{"error": message})
}
