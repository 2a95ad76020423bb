package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// mountFallbacks answers unknown paths and methods with JSON errors.
func (s *Server) mountFallbacks() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
}
