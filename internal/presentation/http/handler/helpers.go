package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseIDParam extracts and parses a UUID path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// cartIDFromHeader reads the client's cart identifier, carried on every
// storefront request once a cart exists
func cartIDFromHeader(c *gin.Context) *uuid.UUID {
	raw := c.GetHeader("X-Cart-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
