package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	subscriptiondomain "github.com/megomed/marketplace/internal/subscription/domain"
)

func (s *Server) ListSubscriptions(c *gin.Context) {
	resp, err := s.subscriptionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenewSubscription(c *gin.Context) {
	subscriptionID := trimmed(c.Param("id"))
	outcome, err := s.subscriptionSvc.Renew(c.Request.Context(), subscriptiondomain.RenewRequest{SubscriptionID: subscriptionID})
	s.recordWorkflow(c, "subscription.renew", auditdomain.TargetSubscription, subscriptionID, outcome, err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}
