package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/seth-walker/HRIS/internal/errors"
)

// Health reports whether the API and its database are reachable.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			apierrors.ServiceUnavailable(c, "Database is unreachable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "HRIS API is running",
		})
	}
}
