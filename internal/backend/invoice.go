package backend

import (
	"context"
	"net/url"

	"github.com/megomed/marketplace/internal/apiresponse"
	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
	"github.com/megomed/marketplace/internal/role"
)

const (
	pathInvoicesByRole       = "/invoices/"
	pathApproveExtendRequest = "/invoices/approve-extend-request"
	pathAcceptRespond        = "/invoices/accept-respond"
)

// InvoiceClient adapts Client to the invoice workflows.
type InvoiceClient struct {
	*Client
}

func NewInvoiceClient(c *Client) invoicedomain.Backend {
	return &InvoiceClient{Client: c}
}

func (c *InvoiceClient) ListInvoices(ctx context.Context, r role.Role) ([]invoicedomain.Invoice, error) {
	return getList[invoicedomain.Invoice](ctx, c.Client, "list_invoices", pathInvoicesByRole+url.PathEscape(r.String()))
}

func (c *InvoiceClient) ApproveExtendRequest(ctx context.Context, invoiceID string, action invoicedomain.ExtendAction) (apiresponse.Payload, error) {
	body := map[string]string{
		"invoiceId": invoiceID,
		"action":    string(action),
	}
	return c.post(ctx, "approve_extend_request", pathApproveExtendRequest, body)
}

func (c *InvoiceClient) AcceptRespondInvoice(ctx context.Context, invoiceID string) (apiresponse.Payload, error) {
	return c.post(ctx, "accept_respond_invoice", pathAcceptRespond, map[string]string{"invoiceId": invoiceID})
}
