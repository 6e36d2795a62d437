// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package navigator

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/ComponentNav/services/navigator/format"
)

// Handlers holds the HTTP handlers for the navigator service.
type Handlers struct {
	service *Service
}

// NewHandlers creates Handlers bound to a service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// getOrCreateRequestID returns the inbound X-Request-ID, minting one
// when absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// HandleResolve handles POST /v1/nav/resolve.
//
// Description:
//
//	Resolves the component reference under a cursor position in the
//	posted document text. A cursor outside any reference, or a
//	reference with no existing files, yields 200 with found=false.
//
// Response:
//
//	200 OK: ResolveResponse
//	400 Bad Request: Malformed body or out-of-range position
//	500 Internal Server Error: Configuration could not be read
func (h *Handlers) HandleResolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleResolve")

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "text is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}
	if req.Line < 0 || req.Column < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "line and column must be non-negative",
			Code:  "INVALID_POSITION",
		})
		return
	}

	resolution, err := h.service.ResolveAtCursor(c.Request.Context(), req.Text, req.Line, req.Column)
	if err != nil {
		logger.Error("resolution failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "RESOLUTION_FAILED",
		})
		return
	}

	resp := ResolveResponse{
		Found:      resolution != nil,
		Resolution: resolution,
	}
	if resolution != nil {
		logger.Info("reference resolved",
			slog.String("component", resolution.Reference.FullName()),
			slog.Int("logic_files", len(resolution.LogicFiles)),
			slog.Int("template_files", len(resolution.TemplateFiles)),
		)
	}
	c.JSON(http.StatusOK, resp)
}

// HandleComplete handles GET /v1/nav/complete.
//
// Query Parameters:
//
//	q: Partial component name (required)
//	limit: Maximum results, default 20 (optional)
//
// Response:
//
//	200 OK: CompleteResponse
//	400 Bad Request: Missing query parameter
//	500 Internal Server Error: Scan or search failure
func (h *Handlers) HandleComplete(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleComplete")

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "q parameter is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	matches, err := h.service.Complete(c.Request.Context(), query, limit)
	if err != nil {
		logger.Error("completion failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "COMPLETION_FAILED",
		})
		return
	}

	resp := CompleteResponse{
		Query:      query,
		Components: make([]ComponentInfo, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Components = append(resp.Components, componentInfoFrom(m))
	}

	logger.Info("completion served",
		slog.String("query", query),
		slog.Int("matches", len(resp.Components)),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleFormat handles POST /v1/nav/format.
//
// Response:
//
//	200 OK: FormatResponse (empty edits when already formatted)
//	400 Bad Request: Malformed body or empty text
//	500 Internal Server Error: Configuration could not be read
func (h *Handlers) HandleFormat(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleFormat")

	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "text is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	edits, formatted, err := h.service.FormatDocument(c.Request.Context(), req.Text)
	if err != nil {
		logger.Error("formatting failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "FORMAT_FAILED",
		})
		return
	}
	if edits == nil {
		edits = []format.Edit{}
	}

	logger.Info("document formatted", slog.Int("edits", len(edits)))
	c.JSON(http.StatusOK, FormatResponse{Edits: edits, Formatted: formatted})
}

// HandleIndex handles POST /v1/nav/index.
//
// Description:
//
//	Rebuilds the component inventory for every workspace root,
//	bypassing the cache. Used after large refactors or when the cache
//	is suspected stale.
//
// Response:
//
//	200 OK: IndexResponse
//	500 Internal Server Error: A root failed to scan
func (h *Handlers) HandleIndex(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleIndex")

	start := time.Now()
	total, err := h.service.Index(c.Request.Context())
	if err != nil {
		logger.Error("indexing failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "INDEX_FAILED",
		})
		return
	}

	resp := IndexResponse{
		Components: total,
		Roots:      len(h.service.Roots()),
		DurationMs: time.Since(start).Milliseconds(),
	}
	logger.Info("index rebuilt",
		slog.Int("components", resp.Components),
		slog.Int64("duration_ms", resp.DurationMs),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleComponents handles GET /v1/nav/components.
//
// Response:
//
//	200 OK: ComponentsResponse
//	500 Internal Server Error: Scan failure
func (h *Handlers) HandleComponents(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleComponents")

	components, err := h.service.Components(c.Request.Context())
	if err != nil {
		logger.Error("listing components failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "LIST_FAILED",
		})
		return
	}

	resp := ComponentsResponse{
		Components: make([]ComponentInfo, 0, len(components)),
		Total:      len(components),
	}
	for _, comp := range components {
		resp.Components = append(resp.Components, componentInfoFrom(comp))
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/nav/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Roots:  h.service.Roots(),
	})
}
