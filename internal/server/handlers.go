package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harshagw/qanun/internal/library"
	"harshagw/qanun/internal/search"
)

func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) internalError(c *gin.Context, err error) {
	c.Error(err)
	errorJSON(c, http.StatusInternalServerError, "INTERNAL", "internal error")
}

// health handles GET /healthz
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ready":  s.lib.Ready(),
	})
}

// listSources handles GET /api/sources
func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.lib.Registry().List()})
}

// listBooks handles GET /api/sources/:key/books
func (s *Server) listBooks(c *gin.Context) {
	key := c.Param("key")
	if !s.lib.Registry().Valid(key) {
		errorJSON(c, http.StatusNotFound, "UNKNOWN_SOURCE", "unknown source "+key)
		return
	}
	books, err := s.lib.Books(key)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// hit is a search result decorated for display.
type hit struct {
	search.Result
	Highlighted string `json:"highlighted"`
	LegalPath   string `json:"legalPath"`
	Link        string `json:"link"`
}

func intQuery(c *gin.Context, name string, def int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// search handles GET /api/search?q=&source=&limit=&extended=
func (s *Server) search(c *gin.Context) {
	req := search.Request{
		Query:    c.Query("q"),
		Source:   c.Query("source"),
		Limit:    intQuery(c, "limit", s.limit),
		Extended: c.Query("extended") == "true",
	}
	if req.Source != "" && !s.lib.Registry().Valid(req.Source) {
		errorJSON(c, http.StatusNotFound, "UNKNOWN_SOURCE", "unknown source "+req.Source)
		return
	}

	if !s.lib.Ready() {
		c.JSON(http.StatusOK, gin.H{"ready": false, "query": req.Query, "results": []hit{}})
		return
	}
	searcher, err := s.lib.Searcher()
	if err != nil {
		s.internalError(c, err)
		return
	}
	resp, err := searcher.Run(req)
	if err != nil {
		s.internalError(c, err)
		return
	}

	hits := make([]hit, len(resp.Results))
	for i, r := range resp.Results {
		hits[i] = hit{
			Result:      r,
			Highlighted: search.Highlight(r.Snippet, req.Query),
			LegalPath:   search.FormatLegalPath(r),
			Link:        library.ArticleLink(r.SourceKey, r.BookID, r.ArticleNumber),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"ready":    true,
		"query":    resp.Query,
		"source":   resp.Source,
		"tooShort": resp.TooShort,
		"took":     resp.Took.String(),
		"results":  hits,
	})
}

// suggest handles GET /api/suggest?q=&limit=
func (s *Server) suggest(c *gin.Context) {
	if !s.lib.Ready() {
		c.JSON(http.StatusOK, gin.H{"ready": false, "suggestions": []search.Suggestion{}})
		return
	}
	searcher, err := s.lib.Searcher()
	if err != nil {
		s.internalError(c, err)
		return
	}
	q := c.Query("q")
	limit := intQuery(c, "limit", 10)

	suggestions, err := searcher.Suggest(q, limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	corrections, err := searcher.DidYouMean(q, 3)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ready":       true,
		"suggestions": suggestions,
		"didYouMean":  corrections,
	})
}

// byIdentifier handles GET /api/identifiers/:number
func (s *Server) byIdentifier(c *gin.Context) {
	if !s.lib.Ready() {
		c.JSON(http.StatusOK, gin.H{"ready": false, "results": []search.Result{}})
		return
	}
	searcher, err := s.lib.Searcher()
	if err != nil {
		s.internalError(c, err)
		return
	}
	results, err := searcher.ByIdentifier(c.Param("number"))
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "results": results})
}

// article handles GET /api/articles/:key/:book/:number
func (s *Server) article(c *gin.Context) {
	view, ok, err := s.lib.Article(c.Param("key"), c.Param("book"), c.Param("number"))
	if err != nil {
		s.internalError(c, err)
		return
	}
	if !ok {
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", "article not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

// expand handles GET /api/books/:key/:book?expand=token
func (s *Server) expand(c *gin.Context) {
	key, book := c.Param("key"), c.Param("book")
	node, ok, err := s.lib.Expand(key, book, c.Query("expand"))
	if err != nil {
		s.internalError(c, err)
		return
	}
	if !ok {
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", "node not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"node":  node,
		"label": s.lib.Registry().Label(node, key),
	})
}
