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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all navigator routes with the router.
//
// Description:
//
//	Registers all /v1/nav/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Endpoints:
//
//	POST /v1/nav/resolve - Resolve the reference under a cursor
//	GET  /v1/nav/complete - Complete a partial component name
//	POST /v1/nav/format - Reformat component tags in a document
//	POST /v1/nav/index - Rebuild the component inventory
//	GET  /v1/nav/components - List all indexed components
//	GET  /v1/nav/health - Health check
//
// Example:
//
//	service, _ := navigator.NewService(navigator.ServiceConfig{Roots: roots})
//	handlers := navigator.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	navigator.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	nav := rg.Group("/nav")
	{
		// Resolution
		nav.POST("/resolve", handlers.HandleResolve)

		// Completion and inventory
		nav.GET("/complete", handlers.HandleComplete)
		nav.POST("/index", handlers.HandleIndex)
		nav.GET("/components", handlers.HandleComponents)

		// Formatting
		nav.POST("/format", handlers.HandleFormat)

		// Health
		nav.GET("/health", handlers.HandleHealth)
	}
}
