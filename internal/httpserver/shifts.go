package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func createShiftHandler(svc ShiftService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Create(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toShiftResponse(*s))
	}
}

func listShiftsHandler(svc ShiftService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shifts, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		out := make([]shiftResponse, 0, len(shifts))
		for _, s := range shifts {
			out = append(out, toShiftResponse(s))
		}
		limit, offset := parsePaging(c.Query("limit"), c.Query("offset"))
		c.JSON(http.StatusOK, paginate(out, limit, offset))
	}
}

func getShiftHandler(svc ShiftService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toShiftResponse(*s))
	}
}

func closeShiftHandler(svc ShiftService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Close(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toShiftResponse(*s))
	}
}
