// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/gin-gonic/gin"
)

// RouteDeps holds the handles the API routes read from
type RouteDeps struct {
	Blacklist *database.BlacklistStore
	Configs   *database.WatchdogStore
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, deps RouteDeps, feed *Feed) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		wd := api.Group("/watchdog")
		{
			wd.GET("/stats", watchdogStatsHandler(deps))
			if feed != nil {
				wd.GET("/feed", feed.Handler())
			}
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Stachio is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// watchdogStatsHandler aggregates blacklist and configuration counts
func watchdogStatsHandler(deps RouteDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		identities, err := deps.Blacklist.CountIdentities(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database Offline",
				"message": "No se pudieron leer las estadísticas de la blacklist.",
			})
			return
		}

		byStatus, err := deps.Blacklist.CountEntriesByStatus(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database Offline"})
			return
		}
		byCategory, err := deps.Blacklist.CountEntriesByCategory(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database Offline"})
			return
		}

		configured, err := deps.Configs.CountConfigured(ctx)
		if err != nil {
			configured = 0
		}

		c.JSON(http.StatusOK, gin.H{
			"identities":        identities,
			"entriesByStatus":   byStatus,
			"entriesByCategory": byCategory,
			"configuredGuilds":  configured,
			"generatedAt":       time.Now().Format(time.RFC3339),
		})
	}
}
