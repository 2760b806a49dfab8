package utils

import (
	"time"

	"github.com/gin-gonic/gin"

	"PartyHub/utils/apperror"
	"PartyHub/utils/logger"
)

// Logger logs information about each request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		logger.Infow("request",
			"status", c.Writer.Status(),
			"latency", time.Since(startTime).Round(time.Microsecond),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns the last error attached with c.Error into a JSON body
// and logs it once. Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		e := apperror.Normalize(c.Errors.Last().Err)
		apperror.Report(e.WithContext("path", c.Request.URL.Path))

		if c.Writer.Written() {
			return
		}

		body := gin.H{"message": e.Message}
		if e.Code != "" {
			body["code"] = e.Code
		}
		c.JSON(e.HTTPStatus(), body)
	}
}

// Fail attaches err to the request and stops the handler chain; ErrorHandler
// writes the response.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
