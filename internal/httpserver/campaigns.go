package httpserver

import (
	"net/http"

	"retail-checkout/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type discountRequest struct {
	Discount float64  `json:"discount"`
	Products []string `json:"products"`
}

type receiptDiscountRequest struct {
	Discount float64 `json:"discount"`
	Amount   float64 `json:"amount"`
}

type comboRequest struct {
	Discount float64             `json:"discount"`
	Products []domain.NumProduct `json:"products"`
}

type buyNGetNRequest struct {
	BuyProduct  domain.NumProduct `json:"buy_product"`
	GiftProduct domain.NumProduct `json:"gift_product"`
}

type campaignProductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func createDiscountHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req discountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid discount campaign body")
			return
		}
		campaign, err := svc.CreateDiscount(c.Request.Context(), req.Discount, req.Products)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toCampaignResponse(*campaign))
	}
}

func createReceiptDiscountHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req receiptDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid receipt discount body")
			return
		}
		campaign, err := svc.CreateReceiptDiscount(c.Request.Context(), req.Discount, req.Amount)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toCampaignResponse(*campaign))
	}
}

func createComboHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req comboRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid combo body")
			return
		}
		campaign, err := svc.CreateCombo(c.Request.Context(), req.Discount, req.Products)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toCampaignResponse(*campaign))
	}
}

func createBuyNGetNHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req buyNGetNRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid buy-n-get-n body")
			return
		}
		campaign, err := svc.CreateBuyNGetN(c.Request.Context(), req.BuyProduct, req.GiftProduct)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toCampaignResponse(*campaign))
	}
}

func listCampaignsHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaigns, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		out := make([]any, 0, len(campaigns))
		for _, campaign := range campaigns {
			out = append(out, toCampaignResponse(campaign))
		}
		limit, offset := parsePaging(c.Query("limit"), c.Query("offset"))
		c.JSON(http.StatusOK, paginate(out, limit, offset))
	}
}

func getCampaignHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCampaignResponse(campaign))
	}
}

func deleteCampaignHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// addCampaignProductHandler links a product to a discount campaign or adds
// a product line to a combo, depending on the campaign's type.
func addCampaignProductHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req campaignProductRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			writeBadRequest(c, "product_id required")
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")
		campaign, err := svc.Get(ctx, id)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		var updated domain.Campaign
		switch campaign.Type() {
		case domain.CampaignDiscount:
			d, err := svc.AddProductToDiscount(ctx, id, req.ProductID)
			if err != nil {
				writeError(c, logger, err)
				return
			}
			updated = *d
		case domain.CampaignCombo:
			qty := req.Quantity
			if qty == 0 {
				qty = 1
			}
			combo, err := svc.AddProductToCombo(ctx, id, req.ProductID, qty)
			if err != nil {
				writeError(c, logger, err)
				return
			}
			updated = *combo
		default:
			writeError(c, logger, domain.Invalid("campaign "+string(campaign.Type())+" does not take products"))
			return
		}
		c.JSON(http.StatusOK, toCampaignResponse(updated))
	}
}

func removeCampaignProductHandler(svc CampaignService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, err := svc.RemoveProductFromDiscount(c.Request.Context(), c.Param("id"), c.Param("productId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCampaignResponse(*campaign))
	}
}
