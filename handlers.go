package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit  = 15
	defaultHistoryLimit = 50
)

// statusFor maps updater errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrTickerRequired), errors.Is(err, ErrUnknownField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (ws *WebServer) listStocks(c *gin.Context) {
	records, err := ws.updater.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filter := ReportFilter{Industry: c.Query("industry"), Rating: c.Query("rating")}
	c.JSON(http.StatusOK, FilterRecords(records, filter))
}

func (ws *WebServer) getStock(c *gin.Context) {
	ticker := NormalizeTicker(c.Param("ticker"))

	rec, ok, err := ws.updater.Get(ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found", "ticker": ticker})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (ws *WebServer) getHistory(c *gin.Context) {
	if ws.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History database is not configured"})
		return
	}

	changes, err := ws.history.History(c.Param("ticker"), queryLimit(c, defaultHistoryLimit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":  NormalizeTicker(c.Param("ticker")),
		"count":   len(changes),
		"changes": changes,
	})
}

func (ws *WebServer) getRuns(c *gin.Context) {
	if ws.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History database is not configured"})
		return
	}

	runs, err := ws.history.RecentRuns(queryLimit(c, defaultHistoryLimit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

func (ws *WebServer) refreshAll(c *gin.Context) {
	summary, err := ws.updater.RefreshAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (ws *WebServer) upsertStock(c *gin.Context) {
	var opts UpsertOptions
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rec, err := ws.updater.UpsertTicker(c.Request.Context(), c.Param("ticker"), opts)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (ws *WebServer) setField(c *gin.Context) {
	var req FieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := ws.updater.SetField(c.Param("ticker"), c.Param("field"), *req.Value)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (ws *WebServer) searchStocks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	records, err := ws.updater.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := NewStockSearchService(records).Search(query, queryLimit(c, defaultSearchLimit))

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (ws *WebServer) getReport(c *gin.Context) {
	records, err := ws.updater.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filter := ReportFilter{Industry: c.Query("industry"), Rating: c.Query("rating")}
	c.JSON(http.StatusOK, BuildReport(records, filter))
}

func queryLimit(c *gin.Context, fallback int) int {
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
