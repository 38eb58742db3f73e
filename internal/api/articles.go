package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"news_review/internal/domain"
)

func RegisterArticleRoutes(r *gin.Engine, h *handler) {
	r.GET("/api/articles", h.listArticles)
}

// listArticles returns the merged local set, optionally filtered by ?author=.
func (h *handler) listArticles(c *gin.Context) {
	var (
		articles []domain.ArticleDisplayModel
		err      error
	)

	if author := c.Query("author"); author != "" {
		articles, err = h.deps.Articles.FetchByAuthor(c.Request.Context(), author)
	} else {
		articles, err = h.deps.Articles.FetchAll(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("failed to list articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if articles == nil {
		articles = []domain.ArticleDisplayModel{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}
