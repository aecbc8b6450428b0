package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totegamma/syscoin-offchain"
	"github.com/totegamma/syscoin-offchain/internal/domain"
	"github.com/totegamma/syscoin-offchain/internal/present/rest/middleware"
	"github.com/totegamma/syscoin-offchain/internal/present/rest/presenter"
	"github.com/totegamma/syscoin-offchain/internal/usecase"
)

type Handler struct {
	aliasData *usecase.AliasDataUsecase
	report    *usecase.ReportUsecase
	node      *usecase.NodeUsecase
	limiter   *middleware.RateLimiter
}

// NewHandler builds the REST handler. limiter may be nil to disable rate
// limiting of report submissions.
func NewHandler(
	aliasData *usecase.AliasDataUsecase,
	report *usecase.ReportUsecase,
	node *usecase.NodeUsecase,
	limiter *middleware.RateLimiter,
) *Handler {
	return &Handler{
		aliasData: aliasData,
		report:    report,
		node:      node,
		limiter:   limiter,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	var reportMiddleware []echo.MiddlewareFunc
	if h.limiter != nil {
		reportMiddleware = append(reportMiddleware, h.limiter.Middleware)
	}

	e.GET("/", h.handleStatus)
	e.GET("/getinfo", h.handleGetInfo)
	e.GET("/aliasdata/:identifier", h.handleGetAliasData)
	e.POST("/aliasdata/:identifier", h.handleSubmitAliasData)
	e.GET("/reportoffer", h.handleReportCounts)
	e.POST("/reportoffer", h.handleSubmitReport, reportMiddleware...)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (h *Handler) handleStatus(c echo.Context) error {
	return c.String(http.StatusOK, "Fetch server operational.")
}

func (h *Handler) handleGetInfo(c echo.Context) error {
	ctx := c.Request().Context()

	info, err := h.node.GetInfo(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, info)
}

func (h *Handler) handleGetAliasData(c echo.Context) error {
	ctx := c.Request().Context()

	identifier := c.Param("identifier")
	if identifier == "" {
		return presenter.BadRequestMessage(c, "identifier is required")
	}

	doc, err := h.aliasData.Get(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, fmt.Sprintf("No matching records for %s", identifier))
		}
		return presenter.Error(c, err)
	}
	return presenter.Document(c, doc)
}

func (h *Handler) handleSubmitAliasData(c echo.Context) error {
	ctx := c.Request().Context()

	var req offchain.AliasDataRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	url, err := h.aliasData.Submit(ctx, usecase.AliasDataSubmitInput{
		AliasName:  c.Param("identifier"),
		Payload:    req.Payload,
		Hash:       req.Hash,
		SignedHash: req.SignedHash,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, offchain.SubmitResponse{Status: "ok", URL: url})
}

func (h *Handler) handleReportCounts(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.report.Counts(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, counts)
}

func (h *Handler) handleSubmitReport(c echo.Context) error {
	ctx := c.Request().Context()

	var req offchain.ReportRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	err = h.report.Submit(ctx, usecase.ReportSubmitInput{
		Payload:    req.Payload,
		Hash:       req.Hash,
		SignedHash: req.SignedHash,
		Address:    req.Address,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, offchain.SubmitResponse{Status: "ok"})
}
