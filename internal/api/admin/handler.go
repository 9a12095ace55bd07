package admin

import (
	"net/http"

	"portfolio-app/internal/api/apierror"
	"portfolio-app/internal/catalog"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *catalog.Repository
}

func NewHandler(repo *catalog.Repository) *Handler {
	return &Handler{repo: repo}
}

// GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /admin/me
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subject": c.GetString("subject"),
		"role":    c.GetString("role"),
	})
}
