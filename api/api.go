package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openfms/sbd-device/cache"
	"github.com/openfms/sbd-device/packetlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes the packet history and the service state over HTTP.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	packetLog  *packetlog.PacketLog
	lastPoints cache.LastPointCache
	log        *zap.Logger
}

type connectedRequest struct {
	State *bool `json:"state"`
}

type updateRequest struct {
	LastIDs []int `json:"last_ids"`
}

// NewServer wires the routes. lastPoints may be nil when no cache is configured.
func NewServer(packetLog *packetlog.PacketLog, lastPoints cache.LastPointCache, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	s := &Server{
		router:     gin.New(),
		packetLog:  packetLog,
		lastPoints: lastPoints,
		log:        logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/health", s.health)
	s.router.GET("/connected", s.getConnected)
	s.router.POST("/connected", s.setConnected)
	s.router.GET("/packets", s.packets)
	s.router.POST("/update", s.update)
	s.router.GET("/devices/:imei/lastpoint", s.lastPoint)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http api started", zap.String("ListenAddress", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getConnected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": s.packetLog.IsEnabled()})
}

func (s *Server) setConnected(c *gin.Context) {
	var req connectedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.State == nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.packetLog.Enable(*req.State)
	s.log.Info("packet log state changed", zap.Bool("state", *req.State))
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"state":  s.packetLog.IsEnabled(),
	})
}

func (s *Server) packets(c *gin.Context) {
	c.JSON(http.StatusOK, s.packetLog.Entries())
}

func (s *Server) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LastIDs == nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	update := s.packetLog.Updates(req.LastIDs)
	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "none"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"update": update,
	})
}

func (s *Server) lastPoint(c *gin.Context) {
	if s.lastPoints == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "last point cache is not configured"})
		return
	}
	point, err := s.lastPoints.LastPoint(c.Request.Context(), c.Param("imei"))
	if errors.Is(err, cache.ErrPointNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("read last point failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read last point failed"})
		return
	}
	c.JSON(http.StatusOK, point)
}
