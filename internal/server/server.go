// Package server exposes the pricing engine over a small JSON API.
//
// The engine itself has no internal early-exit, so the server is the layer
// that bounds latency: Monte Carlo requests whose step×path product exceeds
// the configured budget are rejected before any simulation starts.
//
// Validation failures from the engine or the expression compiler come back
// as HTTP 400 with the failure message echoed in the body; the core's error
// messages are written for end users and are passed through untouched.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// DefaultMaxBudget caps steps×paths per Monte Carlo request.
const DefaultMaxBudget = 50_000_000

// Config holds the server settings.
type Config struct {
	Addr      string // listen address, e.g. ":8080"
	MaxBudget int64  // max steps×paths per request; 0 = DefaultMaxBudget
}

func (c Config) maxBudget() int64 {
	if c.MaxBudget <= 0 {
		return DefaultMaxBudget
	}
	return c.MaxBudget
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/price", priceMonteCarlo(cfg))
	router.POST("/api/lattice", priceLattice(cfg))

	return router
}

// Run starts the HTTP server. The gin engine is an http.Handler, so the
// CORS layer wraps it directly.
func Run(cfg Config) error {
	handler := cors.Default().Handler(NewRouter(cfg))
	logger.Infof("event=server_start addr=%s max_budget=%d", cfg.Addr, cfg.maxBudget())
	return http.ListenAndServe(cfg.Addr, handler)
}

func priceMonteCarlo(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MonteCarloRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		params, err := req.Params()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		if budget := int64(params.Steps) * int64(params.Paths); budget > cfg.maxBudget() {
			logger.Debugf("event=budget_rejected steps=%d paths=%d", params.Steps, params.Paths)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "simulation budget exceeded: reduce steps or paths",
			})
			return
		}

		res, err := pricing.PriceMonteCarlo(params)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		logger.Debugf("event=mc_priced price=%.6f stderr=%.6f paths=%d", res.Price, res.StandardError, params.Paths)
		c.JSON(http.StatusOK, MonteCarloResponse{
			Price:         res.Price,
			StandardError: jsonFloat(res.StandardError),
		})
	}
}

func priceLattice(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LatticeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		res, err := pricing.PriceBinomial(req.Params())
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		logger.Debugf("event=lattice_priced price=%.6f delta=%.6f steps=%d", res.Price, res.Delta, req.Steps)
		c.JSON(http.StatusOK, LatticeResponse{Price: res.Price, Delta: res.Delta})
	}
}
