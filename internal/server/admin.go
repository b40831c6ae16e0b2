package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
)

type auditListResponse struct {
	Data     []auditdomain.AuditLog `json:"data"`
	PageInfo *pagination.PageInfo   `json:"page_info"`
}

// ListAuditLogs pages through audit entries, optionally filtered to one
// actor via ?actor_key=.
func (s *Server) ListAuditLogs(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actorKey := strings.TrimSpace(c.Query("actor_key"))
	logs, info, err := s.auditSvc.List(c.Request.Context(), actorKey, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if logs == nil {
		logs = []auditdomain.AuditLog{}
	}

	c.JSON(http.StatusOK, auditListResponse{
		Data:     logs,
		PageInfo: info,
	})
}
