package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/apperrors"
	"taskapi/internal/database"
)

type MigrationHandler struct {
	migrator *database.Migrator
}

func NewMigrationHandler(migrator *database.Migrator) *MigrationHandler {
	return &MigrationHandler{migrator: migrator}
}

// Status reports every registered migration with its applied state
func (h *MigrationHandler) Status(c *gin.Context) {
	statuses, err := h.migrator.Status()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	applied := 0
	for _, s := range statuses {
		if s.Applied {
			applied++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"total_migrations":   len(statuses),
		"applied_migrations": applied,
		"pending_migrations": len(statuses) - applied,
		"migrations":         statuses,
	})
}

// Migrate applies all pending migrations
func (h *MigrationHandler) Migrate(c *gin.Context) {
	applied, err := h.migrator.Migrate()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	message := "no pending migrations"
	if len(applied) > 0 {
		message = "migrations applied"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"applied_count": len(applied),
		"applied":       applied,
	})
}

// Rollback reverts migrations down to target_version, or the single most
// recent one when no target is given
func (h *MigrationHandler) Rollback(c *gin.Context) {
	target := c.Query("target_version")

	rolledBack, err := h.migrator.Rollback(target)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "migrations rolled back",
		"rollback_count": len(rolledBack),
		"rolled_back":    rolledBack,
	})
}
