package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	"github.com/megomed/marketplace/internal/feedback"
	"github.com/megomed/marketplace/pkg/db/pagination"
	"go.uber.org/zap"
)

type listAuditLogsQuery struct {
	PageToken  string `form:"page_token"`
	PageSize   int    `form:"page_size"`
	Action     string `form:"action"`
	TargetType string `form:"target_type"`
	TargetID   string `form:"target_id"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListAuditLogRequest{
		Pagination: pagination.Pagination{
			PageToken: trimmed(query.PageToken),
			PageSize:  query.PageSize,
		},
		Action:     trimmed(query.Action),
		TargetType: trimmed(query.TargetType),
		TargetID:   trimmed(query.TargetID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.AuditLogs, "page_info": resp.PageInfo})
}

// recordWorkflow writes one audit entry per workflow attempt. Failures to
// record never change the response.
func (s *Server) recordWorkflow(c *gin.Context, action, targetType, targetID string, outcome feedback.Outcome, err error) {
	if s.auditSvc == nil {
		return
	}

	result, message := workflowResult(outcome, err)
	metadata := map[string]any{}
	if outcome.OpenURL != "" {
		metadata["open_url"] = outcome.OpenURL
	}
	if outcome.NavigateURL != "" {
		metadata["navigate_url"] = outcome.NavigateURL
	}
	if err == nil {
		metadata["refetched"] = outcome.Refetched
	}

	if recErr := s.auditSvc.Record(c.Request.Context(), auditdomain.RecordRequest{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Result:     result,
		Message:    message,
		Metadata:   metadata,
	}); recErr != nil {
		s.log.Debug("audit record skipped", zap.String("action", action), zap.Error(recErr))
	}
}
