package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams holds the pagination window
type PageParams struct {
	Skip  int
	Limit int
}

// GetPageParams extracts and clamps skip/limit from the request. A skip past
// the end of the result set is legal and yields an empty page.
func GetPageParams(c *gin.Context, defaultLimit, maxLimit int) PageParams {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return PageParams{Skip: skip, Limit: limit}
}
