package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HandlePanics is the recovery function for gin.CustomRecovery. The panic value is
// logged and the request is answered with a bare 500.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error().
			Interface("recovered", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")

		if err, ok := recovered.(error); ok {
			c.String(http.StatusInternalServerError, err.Error())
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
