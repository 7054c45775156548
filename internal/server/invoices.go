package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentbill/talentbill/internal/employerctx"
)

// ListInvoices
// GET /api/invoices
func (s *Server) ListInvoices(c *gin.Context) {
	employerID, ok := employerctx.EmployerIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), employerID, pageFromQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Invoices, resp.PageInfo)
}

// GetInvoice
// GET /api/invoices/:number
func (s *Server) GetInvoice(c *gin.Context) {
	employerID, ok := employerctx.EmployerIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoice, err := s.invoiceSvc.GetByNumber(c.Request.Context(), employerID, c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

// DownloadInvoice redirects to the archived PDF rather than proxying the
// bytes through the API.
// GET /api/invoices/:number/download
func (s *Server) DownloadInvoice(c *gin.Context) {
	employerID, ok := employerctx.EmployerIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoice, err := s.invoiceSvc.GetByNumber(c.Request.Context(), employerID, c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if invoice.PDFURL == "" {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Redirect(http.StatusFound, invoice.PDFURL)
}

// VoidInvoice
// POST /api/invoices/:number/void
func (s *Server) VoidInvoice(c *gin.Context) {
	employerID, ok := employerctx.EmployerIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoice, err := s.invoiceSvc.Void(c.Request.Context(), employerID, c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}
