// Package search serves the global search box.
package search

import (
	"net/http"
	"strconv"
	"strings"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/apperr"
	index "contracts-app/internal/infra/search"

	"github.com/gin-gonic/gin"
)

var types = map[string]index.ResultType{
	"contract": index.TypeContract,
	"release":  index.TypeRelease,
	"artist":   index.TypeArtist,
	"document": index.TypeDocument,
	"event":    index.TypeEvent,
	"task":     index.TypeTask,
	"writer":   index.TypeWriter,
}

// Handler returns GET /search?q=&type=&limit= backed by svc.
func Handler(svc *index.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := crud.MustScope(c)
		if !ok {
			return
		}
		if svc == nil {
			apperr.Write(c, apperr.Unavailable("search is not available"))
			return
		}

		q := index.Query{Text: strings.TrimSpace(c.Query("q"))}
		if t := c.Query("type"); t != "" {
			rt, ok := types[strings.ToLower(t)]
			if !ok {
				apperr.Write(c, apperr.BadRequest("invalid_type", "unknown result type "+t))
				return
			}
			q.Type = rt
		}
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 {
				apperr.Write(c, apperr.BadRequest("invalid_limit", "limit must be a positive integer"))
				return
			}
			q.Limit = n
		}
		if q.Text == "" {
			c.JSON(http.StatusOK, index.Response{Results: []index.Result{}, Query: ""})
			return
		}

		res, err := svc.Search(scope, q)
		if err != nil {
			apperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
