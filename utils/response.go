package utils

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope:
// {"success": true, "data": ...} or {"success": false, "error": "..."}.

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
