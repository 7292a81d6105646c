/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package webui serves a gin.Engine over the Sink's findings
// when --web-ui is set: a paginated service listing, a delete endpoint for
// pruning stale rows, and a /metrics scrape target. It never mutates scan
// state; the scan runs identically whether or not the UI is attached.
package webui

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabouaram/lachesis/internal/metrics"
	"github.com/sabouaram/lachesis/internal/sink"
)

const (
	defaultPageSize = 50
	shutdownGrace   = 5 * time.Second
)

// Server wires the Sink's read surface onto a gin.Engine. The zero value
// is not usable; build one with New.
type Server struct {
	engine *gin.Engine
	sink   sink.Sink
	metric *metrics.Metrics
}

// New builds the router. metric may be nil, in which case /metrics
// responds 404 rather than panicking on a nil registry.
func New(sk sink.Sink, metric *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{engine: gin.New(), sink: sk, metric: metric}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/services", s.listServices)
	s.engine.DELETE("/services", s.deleteServices)
	s.engine.GET("/healthz", s.healthz)

	if metric != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metric.Registry, promhttp.HandlerOpts{})))
	}

	return s
}

// Handler returns the underlying http.Handler for use with http.Server;
// callers own the listener's lifecycle.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) healthz(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) listServices(c *gin.Context) {
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)), 10, 64)
	if limit <= 0 {
		limit = defaultPageSize
	}

	page, err := s.sink.ListServices(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

type deleteRequest struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

func (s *Server) deleteServices(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sink.DeleteServices(c.Request.Context(), req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Run starts an http.Server bound to addr and blocks until ctx is
// cancelled, then shuts it down gracefully.
func Run(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
