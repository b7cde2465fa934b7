package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the uniform failure payload: a message and nothing else.
// Internal error detail (SQL, stack traces) never reaches the client.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a success response with the given status code.
func JSON(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Error writes a failure response with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorBody{Error: message})
}

// NoContent writes an empty 204 response.
func NoContent(ctx *gin.Context) {
	ctx.Status(204)
}
