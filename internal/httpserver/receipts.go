package httpserver

import (
	"context"
	"net/http"
	"strings"

	"retail-checkout/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createReceiptRequest struct {
	ShiftID string `json:"shift_id"`
}

type receiptItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type paymentRequest struct {
	Currency string `json:"currency"`
}

type addItemFunc func(ctx context.Context, receiptID, itemID string, quantity int) (*domain.Receipt, error)

func createReceiptHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReceiptRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ShiftID) == "" {
			writeBadRequest(c, "shift_id required")
			return
		}
		r, err := svc.Create(c.Request.Context(), req.ShiftID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toReceiptResponse(*r))
	}
}

func listReceiptsHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipts, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		limit, offset := parsePaging(c.Query("limit"), c.Query("offset"))
		c.JSON(http.StatusOK, paginate(toReceiptResponses(receipts), limit, offset))
	}
}

func getReceiptHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toReceiptResponse(*r))
	}
}

func deleteReceiptHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// addReceiptItemHandler serves the product, combo and gift endpoints, which
// share the {id, quantity} body.
func addReceiptItemHandler(add addItemFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req receiptItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
			writeBadRequest(c, "id required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		r, err := add(c.Request.Context(), c.Param("id"), req.ID, req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toReceiptResponse(*r))
	}
}

func deleteReceiptItemHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := svc.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toReceiptResponse(*r))
	}
}

func closeReceiptHandler(svc ReceiptService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := svc.Close(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toReceiptResponse(*r))
	}
}

func payReceiptHandler(svc PaymentService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Currency) == "" {
			writeBadRequest(c, "currency required")
			return
		}
		p, err := svc.Pay(c.Request.Context(), c.Param("id"), req.Currency)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
