package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches gin to release mode in production; every other
// environment keeps the debug output.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
