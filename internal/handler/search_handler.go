package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/service"
)

// SearchHandler serves full-text search over translations
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /search
func (h *SearchHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query := c.Query("q")

	hits, total, err := h.searchService.Search(query, c.Query("lang"), page, perPage)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}

	meta := common.NewMeta(page, perPage, total)
	meta.Query = query
	common.SuccessResponse(c, hits, meta)
}
