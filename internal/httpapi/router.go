// Package httpapi wires the pipeline's HTTP surface with gin, adapted
// from services/order_service/src/controllers/order_controller.go's
// request/response conventions.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"priceadvisor/internal/apperr"
	"priceadvisor/internal/domain"
	"priceadvisor/internal/metrics"
	"priceadvisor/internal/orchestrator"
	"priceadvisor/internal/reqcache"
)

// Handler holds the orchestrator and cache the HTTP layer delegates
// to.
type Handler struct {
	Orchestrator *orchestrator.Orchestrator
	Cache        *reqcache.Cache
}

// NewRouter builds the gin engine with every route spec.md §6 names.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/price-recommendation", h.postRecommendation)
	router.GET("/health", h.getHealth)
	router.GET("/cache/stats", h.getCacheStats)
	router.DELETE("/cache/clear", h.deleteCacheClear)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (h *Handler) postRecommendation(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	var override *orchestrator.Override
	if req.InternalData != nil {
		override = &orchestrator.Override{
			InternalPrice:   req.InternalData.InternalPrice,
			SellThroughRate: req.InternalData.SellThroughRate,
			DaysOnShelf:     req.InternalData.DaysOnShelf,
			Category:        req.InternalData.Category,
		}
	}

	rec, err := h.Orchestrator.Recommend(c.Request.Context(), req.UPC, override)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(req.UPC, rec))
}

func (h *Handler) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getCacheStats(c *gin.Context) {
	stats := h.Cache.Stats(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"size":   stats.Size,
		"hits":   stats.Hits,
		"misses": stats.Misses,
	})
}

func (h *Handler) deleteCacheClear(c *gin.Context) {
	cleared, err := h.Cache.Clear(c.Request.Context())
	if err != nil {
		writeError(c, apperr.Internal("failed to clear cache", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

func writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		metrics.ErrorsTotal.WithLabelValues(string(appErr.Kind)).Inc()
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Field: appErr.Field,
		})
		return
	}
	metrics.ErrorsTotal.WithLabelValues(string(apperr.KindInternal)).Inc()
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func toResponse(upc string, rec domain.Recommendation) RecommendationResponse {
	resp := RecommendationResponse{
		UPC:                       upc,
		RecommendedPrice:          rec.RecommendedPrice,
		InternalVsMarketWeighting: rec.InternalVsMarketWeighting,
		ConfidenceScore:           rec.ConfidenceScore,
		Rationale:                 rec.Rationale,
		PredictionMethod:          string(rec.PredictionMethod),
		Warnings:                  rec.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}

	if rec.Market != nil && rec.Market.Status == domain.SampleStatusOK {
		resp.MarketData = &MarketDataResponse{
			MedianPrice:       rec.Market.Median,
			AveragePrice:      rec.Market.Mean,
			MinPrice:          rec.Market.Min,
			MaxPrice:          rec.Market.Max,
			SampleSize:        rec.Market.SampleSize,
			SoldListingsCount: rec.Market.SoldCount,
			Timestamp:         rec.Market.Timestamp.UTC().Format(timeLayout),
		}
	}

	if rec.Internal != nil {
		resp.InternalData = &InternalDataResponse{
			InternalPrice:   rec.Internal.InternalPrice,
			SellThroughRate: rec.Internal.SellThroughRate,
			DaysOnShelf:     rec.Internal.DaysOnShelf,
			Category:        rec.Internal.Category,
			MatchedCount:    rec.Internal.MatchedCount,
		}
	}

	return resp
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
