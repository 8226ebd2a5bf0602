package main

import (
	"log"

	"github.com/gin-gonic/gin"
)

// HistoryReader is the query side of the change history.
type HistoryReader interface {
	History(ticker string, limit int) ([]FieldChange, error)
	RecentRuns(limit int) ([]RefreshRun, error)
}

type WebServer struct {
	updater   *Updater
	history   HistoryReader
	scheduler *Scheduler
	router    *gin.Engine
	logger    *log.Logger
}

// NewWebServer builds the router. history may be nil when no history database
// is configured.
func NewWebServer(updater *Updater, history HistoryReader, logger *log.Logger) *WebServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	server := &WebServer{
		updater: updater,
		history: history,
		router:  router,
		logger:  logger,
	}

	server.setupRoutes()
	return server
}

// EnableScheduler starts a cron refresh that lives as long as the server.
func (ws *WebServer) EnableScheduler(cfg ScheduleConfig) error {
	scheduler, err := NewScheduler(ws.updater, cfg, ws.logger)
	if err != nil {
		return err
	}
	if err := scheduler.Start(); err != nil {
		return err
	}
	ws.scheduler = scheduler
	return nil
}

func (ws *WebServer) setupRoutes() {
	api := ws.router.Group("/api")
	{
		api.GET("/search", ws.searchStocks)
		api.GET("/report", ws.getReport)
		api.GET("/runs", ws.getRuns)
		api.POST("/refresh", ws.refreshAll)

		api.GET("/stocks", ws.listStocks)
		api.GET("/stocks/:ticker", ws.getStock)
		api.GET("/stocks/:ticker/history", ws.getHistory)
		api.POST("/stocks/:ticker/upsert", ws.upsertStock)
		api.PUT("/stocks/:ticker/:field", ws.setField)
	}
}

func (ws *WebServer) Handler() *gin.Engine {
	return ws.router
}

func (ws *WebServer) Run(addr string) error {
	ws.logger.Printf("Web server starting on %s", addr)
	return ws.router.Run(addr)
}

func (ws *WebServer) Close() {
	if ws.scheduler != nil {
		ws.scheduler.Stop()
	}
}
