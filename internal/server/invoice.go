package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
)

type listInvoicesQuery struct {
	SortBy   string `form:"sort_by"`
	Order    string `form:"order"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	From     string `form:"from"`
	To       string `form:"to"`
}

type resolveExtendRequestBody struct {
	Action string `json:"action"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query listInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		SortBy:   trimmed(query.SortBy),
		Order:    trimmed(query.Order),
		Page:     query.Page,
		PageSize: query.PageSize,
		From:     trimmed(query.From),
		To:       trimmed(query.To),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResolveExtendRequest(c *gin.Context) {
	var body resolveExtendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoiceID := trimmed(c.Param("id"))
	outcome, err := s.invoiceSvc.ResolveExtendRequest(c.Request.Context(), invoicedomain.ResolveExtendRequest{
		InvoiceID: invoiceID,
		Action:    body.Action,
	})
	s.recordWorkflow(c, "invoice.extend_request."+trimmed(body.Action), auditdomain.TargetInvoice, invoiceID, outcome, err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}

func (s *Server) PayInvoice(c *gin.Context) {
	invoiceID := trimmed(c.Param("id"))
	outcome, err := s.invoiceSvc.Pay(c.Request.Context(), invoicedomain.PayRequest{InvoiceID: invoiceID})
	s.recordWorkflow(c, "invoice.pay", auditdomain.TargetInvoice, invoiceID, outcome, err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}
