package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func xReportHandler(svc ReportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.X(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func zReportHandler(svc ReportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.Z(c.Request.Context(), c.Param("shiftId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
