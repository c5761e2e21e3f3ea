package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
)

func (s *Server) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": invoicedomain.PaymentMethods()})
}

func (s *Server) ListVatRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": invoicedomain.VatRates})
}
