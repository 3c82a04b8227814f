package httpserver

import (
	"context"
	"errors"

	"retail-checkout/internal/domain"
	"retail-checkout/internal/service/payment"
	"retail-checkout/internal/service/product"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProductService interface {
	Create(ctx context.Context, in product.CreateInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*product.PricedProduct, error)
	List(ctx context.Context) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error)
}

type CampaignService interface {
	Get(ctx context.Context, id string) (domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	CreateDiscount(ctx context.Context, discount float64, productIDs []string) (*domain.DiscountCampaign, error)
	CreateReceiptDiscount(ctx context.Context, discount, amount float64) (*domain.ReceiptCampaign, error)
	CreateCombo(ctx context.Context, discount float64, products []domain.NumProduct) (*domain.ComboCampaign, error)
	CreateBuyNGetN(ctx context.Context, buy, gift domain.NumProduct) (*domain.BuyNGetNCampaign, error)
	AddProductToDiscount(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
	RemoveProductFromDiscount(ctx context.Context, campaignID, productID string) (*domain.DiscountCampaign, error)
	AddProductToCombo(ctx context.Context, campaignID, productID string, quantity int) (*domain.ComboCampaign, error)
}

type ShiftService interface {
	Create(ctx context.Context) (*domain.Shift, error)
	Get(ctx context.Context, id string) (*domain.Shift, error)
	List(ctx context.Context) ([]domain.Shift, error)
	Close(ctx context.Context, id string) (*domain.Shift, error)
}

type ReceiptService interface {
	Create(ctx context.Context, shiftID string) (*domain.Receipt, error)
	Get(ctx context.Context, id string) (*domain.Receipt, error)
	List(ctx context.Context) ([]domain.Receipt, error)
	Delete(ctx context.Context, id string) error
	AddProduct(ctx context.Context, receiptID, productID string, quantity int) (*domain.Receipt, error)
	AddCombo(ctx context.Context, receiptID, comboID string, quantity int) (*domain.Receipt, error)
	AddGift(ctx context.Context, receiptID, campaignID string, quantity int) (*domain.Receipt, error)
	DeleteItem(ctx context.Context, receiptID, itemID string) (*domain.Receipt, error)
	Close(ctx context.Context, id string) (*domain.Receipt, error)
}

type PaymentService interface {
	Pay(ctx context.Context, receiptID, currency string) (*payment.Payment, error)
}

type ReportService interface {
	X(ctx context.Context) (domain.Report, error)
	Z(ctx context.Context, shiftID string) (domain.Report, error)
}

// Deps holds the services the router dispatches to.
type Deps struct {
	Products  ProductService
	Campaigns CampaignService
	Shifts    ShiftService
	Receipts  ReceiptService
	Payments  PaymentService
	Reports   ReportService
}

func (d Deps) validate() error {
	switch {
	case d.Products == nil:
		return errors.New("product service required")
	case d.Campaigns == nil:
		return errors.New("campaign service required")
	case d.Shifts == nil:
		return errors.New("shift service required")
	case d.Receipts == nil:
		return errors.New("receipt service required")
	case d.Payments == nil:
		return errors.New("payment service required")
	case d.Reports == nil:
		return errors.New("report service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		accessLogMiddleware(logger),
		recoveryMiddleware(logger),
		corsMiddleware(corsOrigins),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	products := router.Group("/products")
	products.POST("", createProductHandler(deps.Products, logger))
	products.GET("", listProductsHandler(deps.Products, logger))
	products.GET("/:id", getProductHandler(deps.Products, logger))
	products.PATCH("/:id", updateProductHandler(deps.Products, logger))

	campaigns := router.Group("/campaigns")
	campaigns.POST("/discount", createDiscountHandler(deps.Campaigns, logger))
	campaigns.POST("/receipt-discount", createReceiptDiscountHandler(deps.Campaigns, logger))
	campaigns.POST("/combo", createComboHandler(deps.Campaigns, logger))
	campaigns.POST("/buy-n-get-n", createBuyNGetNHandler(deps.Campaigns, logger))
	campaigns.GET("", listCampaignsHandler(deps.Campaigns, logger))
	campaigns.GET("/:id", getCampaignHandler(deps.Campaigns, logger))
	campaigns.DELETE("/:id", deleteCampaignHandler(deps.Campaigns, logger))
	campaigns.POST("/:id/products", addCampaignProductHandler(deps.Campaigns, logger))
	campaigns.DELETE("/:id/products/:productId", removeCampaignProductHandler(deps.Campaigns, logger))

	shifts := router.Group("/shifts")
	shifts.POST("", createShiftHandler(deps.Shifts, logger))
	shifts.GET("", listShiftsHandler(deps.Shifts, logger))
	shifts.GET("/:id", getShiftHandler(deps.Shifts, logger))
	shifts.PATCH("/:id/close", closeShiftHandler(deps.Shifts, logger))

	receipts := router.Group("/receipts")
	receipts.POST("", createReceiptHandler(deps.Receipts, logger))
	receipts.GET("", listReceiptsHandler(deps.Receipts, logger))
	receipts.GET("/:id", getReceiptHandler(deps.Receipts, logger))
	receipts.DELETE("/:id", deleteReceiptHandler(deps.Receipts, logger))
	receipts.POST("/:id/products", addReceiptItemHandler(deps.Receipts.AddProduct, logger))
	receipts.POST("/:id/combos", addReceiptItemHandler(deps.Receipts.AddCombo, logger))
	receipts.POST("/:id/gifts", addReceiptItemHandler(deps.Receipts.AddGift, logger))
	receipts.DELETE("/:id/items/:itemId", deleteReceiptItemHandler(deps.Receipts, logger))
	receipts.POST("/:id/close", closeReceiptHandler(deps.Receipts, logger))
	receipts.POST("/:id/payments", payReceiptHandler(deps.Payments, logger))

	reports := router.Group("/reports")
	reports.GET("/x", xReportHandler(deps.Reports, logger))
	reports.GET("/z/:shiftId", zReportHandler(deps.Reports, logger))

	return router, nil
}
