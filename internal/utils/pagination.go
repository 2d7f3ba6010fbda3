package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 100
)

// ListParams holds the validated skip/limit window for list requests.
type ListParams struct {
	Skip  int64
	Limit int64
}

// GetListParams extracts and validates skip and limit from the query
// string. Out-of-range values are rejected, not clamped.
func GetListParams(c *gin.Context) (ListParams, error) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		return ListParams{}, fmt.Errorf("skip must be a non-negative integer")
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)), 10, 64)
	if err != nil || limit < MinLimit || limit > MaxLimit {
		return ListParams{}, fmt.Errorf("limit must be an integer between %d and %d", MinLimit, MaxLimit)
	}

	return ListParams{
		Skip:  skip,
		Limit: limit,
	}, nil
}
