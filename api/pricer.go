package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/albertium/FlexPricer/engine"
	"github.com/albertium/FlexPricer/mc"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Places kept in response values.
const places = 8

var errTooManyPaths = errors.New("paths exceed the server limit")

type pricingRequest struct {
	Model      string             `json:"model" binding:"required"`
	Instrument string             `json:"instrument" binding:"required"`
	Params     map[string]float64 `json:"params" binding:"required"`
	Paths      int                `json:"paths" binding:"omitempty,min=1"`
	MaxStep    float64            `json:"max_step" binding:"omitempty,min=0"`
	Seed       int64              `json:"seed"`
}

type greeksRequest struct {
	pricingRequest
	Names  []string  `json:"names" binding:"required,min=1"`
	Sweep  string    `json:"sweep" binding:"required"`
	Values []float64 `json:"values" binding:"required,min=1"`
}

type curvatureRequest struct {
	pricingRequest
	First  string    `json:"first" binding:"required"`
	Second string    `json:"second" binding:"required"`
	Sweep  string    `json:"sweep" binding:"required"`
	Values []float64 `json:"values" binding:"required,min=1"`
}

func (server *Server) pricer(req pricingRequest) (*engine.Pricer, int, error) {
	paths := req.Paths
	if paths == 0 {
		paths = min(engine.DefaultPaths, server.cfg.MaxPaths)
	}
	if paths > server.cfg.MaxPaths {
		return nil, 0, fmt.Errorf("%w: %d > %d", errTooManyPaths, paths, server.cfg.MaxPaths)
	}
	p, err := engine.NewPricer(req.Model, req.Instrument,
		engine.WithPaths(paths),
		engine.WithMaxStep(req.MaxStep),
		engine.WithLogger(server.logger),
	)
	return p, paths, err
}

func (server *Server) price(c *gin.Context) {
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	p, paths, err := server.pricer(req)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	est, err := p.PriceWithError(req.Params, req.Seed)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	values, err := toDecimals([]float64{est.Price, est.StdErr})
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model":      req.Model,
		"instrument": req.Instrument,
		"paths":      paths,
		"price":      values[0],
		"std_err":    values[1],
	})
}

func (server *Server) greeks(c *gin.Context) {
	var req greeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	p, _, err := server.pricer(req.pricingRequest)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	grad, err := p.Gradient(req.Params, req.Names, req.Sweep, req.Seed)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	sens, err := grad(req.Values)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	prices, err := toDecimals(sens.Prices)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	deltas := make(map[string][]decimal.Decimal, len(sens.Deltas))
	for name, v := range sens.Deltas {
		if deltas[name], err = toDecimals(v); err != nil {
			c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"sweep":  req.Sweep,
		"values": req.Values,
		"prices": prices,
		"deltas": deltas,
	})
}

func (server *Server) curvature(c *gin.Context) {
	var req curvatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	p, _, err := server.pricer(req.pricingRequest)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	d2, err := p.SecondDerivative(req.Params, req.First, req.Second, req.Sweep, req.Seed)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	v, err := d2(req.Values)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	curvature, err := toDecimals(v)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"first":     req.First,
		"second":    req.Second,
		"sweep":     req.Sweep,
		"values":    req.Values,
		"curvature": curvature,
	})
}

// statusOf maps bad input to 400 and everything else to 500.
func statusOf(err error) int {
	for _, target := range []error{
		errTooManyPaths,
		mc.ErrMissingParameter,
		mc.ErrNoEvents,
		engine.ErrUnknownModel,
		engine.ErrUnknownInstrument,
		engine.ErrInvalidOption,
		engine.ErrUnsupported,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// toDecimal rounds x for the response. decimal cannot hold NaN or Inf.
func toDecimal(x float64) (decimal.Decimal, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: %v in response", engine.ErrNumerical, x)
	}
	return decimal.NewFromFloat(x).Round(places), nil
}

func toDecimals(xs []float64) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(xs))
	for i, x := range xs {
		d, err := toDecimal(x)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
