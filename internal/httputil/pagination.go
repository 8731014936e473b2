package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination bounds shared by every list endpoint.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ParsePagination parses the offset and limit query parameters, applying
// DefaultPageLimit when limit is absent and rejecting limits above
// MaxPageLimit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return offset, limit, nil
}
