package httpserver

import (
	"net/http"

	"retail-checkout/internal/service/product"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updatePriceRequest struct {
	Price *float64 `json:"price"`
}

func createProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid product body")
			return
		}
		p, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func listProductsHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		limit, offset := parsePaging(c.Query("limit"), c.Query("offset"))
		c.JSON(http.StatusOK, paginate(products, limit, offset))
	}
}

func getProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updatePriceRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
			writeBadRequest(c, "price required")
			return
		}
		p, err := svc.UpdatePrice(c.Request.Context(), c.Param("id"), *req.Price)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
