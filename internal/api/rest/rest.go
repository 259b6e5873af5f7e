package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		nft := api.Group("/nft")
		{
			nft.GET("/assets/owner", handler.GetAssetsByOwner)
			nft.GET("/assets/token", handler.GetAssetsByToken)
			nft.GET("/transactions", handler.GetTransactions)
			nft.POST("/notify", handler.Notify)
		}

		// Cache introspection for operations tooling
		cache := api.Group("/cache")
		{
			cache.GET("/keys", handler.GetCacheKeys)
			cache.GET("/keys/hardware", handler.GetHardwareCacheKeys)
		}
	}
}
