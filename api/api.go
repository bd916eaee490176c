// Package api serves the analyzer over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/arl/statsviz"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/fan"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	analyzer *analyzer.Analyzer
}

func NewHandler(an *analyzer.Analyzer) *Handler {
	return &Handler{analyzer: an}
}

// status maps analyzer errors onto HTTP codes. A hand that does not win
// is a valid question with a negative answer.
func status(err error) int {
	if errors.Is(err, fan.ErrNotWin) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func fail(c *gin.Context, err error) {
	log.Debug().Err(err).Str("path", c.FullPath()).Msg("request-failed")
	c.JSON(status(err), ErrorResponse{Error: err.Error()})
}

// bind reads the request body, forcing the action to the route's.
func bind(c *gin.Context, action string) (*analyzer.Request, bool) {
	var req analyzer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return nil, false
	}
	req.Action = action
	return &req, true
}

func (h *Handler) Fan(c *gin.Context) {
	req, ok := bind(c, analyzer.ActionFan)
	if !ok {
		return
	}
	resp, err := h.analyzer.Fan(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Shanten(c *gin.Context) {
	req, ok := bind(c, analyzer.ActionShanten)
	if !ok {
		return
	}
	resp, err := h.analyzer.Shanten(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Discard(c *gin.Context) {
	req, ok := bind(c, analyzer.ActionDiscard)
	if !ok {
		return
	}
	resp, err := h.analyzer.Discards(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Wait(c *gin.Context) {
	req, ok := bind(c, analyzer.ActionWait)
	if !ok {
		return
	}
	resp, err := h.analyzer.Wait(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Analyze takes any action in the body and answers through the result
// cache.
func (h *Handler) Analyze(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := h.analyzer.Analyze(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// SetupRouter builds the engine. With debug set the runtime dashboard is
// mounted at /debug/statsviz/.
func SetupRouter(h *Handler, debug bool) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/fan", h.Fan)
		v1.POST("/shanten", h.Shanten)
		v1.POST("/discard", h.Discard)
		v1.POST("/wait", h.Wait)
		v1.POST("/analyze", h.Analyze)
	}

	if debug {
		mux := http.NewServeMux()
		if err := statsviz.Register(mux); err != nil {
			return nil, err
		}
		r.GET("/debug/statsviz/*any", gin.WrapH(mux))
	}
	return r, nil
}
