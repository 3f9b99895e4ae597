package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// AdminDashboard godoc
// @Summary      Marketplace counts for the admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  object
// @Router       /api/dashboard/admin [get]
func AdminDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
		defer cancel()

		verificationCounts := map[string]int{
			models.VerificationPending:  0,
			models.VerificationVerified: 0,
			models.VerificationRejected: 0,
		}
		rows, err := db.QueryContext(ctx, `SELECT verification, COUNT(*) FROM supplier_profiles GROUP BY verification`)
		if err != nil {
			log.Printf("Error fetching verification counts: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier counts"})
			return
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if err := rows.Scan(&status, &count); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process supplier counts"})
				return
			}
			if _, known := verificationCounts[status]; known {
				verificationCounts[status] = count
			}
		}

		categoryCounts := map[string]int{
			models.CategoryCivil:      0,
			models.CategoryElectrical: 0,
			models.CategoryMachinery:  0,
		}
		catRows, err := db.QueryContext(ctx, `SELECT category, COUNT(*) FROM materials GROUP BY category`)
		if err != nil {
			log.Printf("Error fetching category counts: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch material counts"})
			return
		}
		defer catRows.Close()
		for catRows.Next() {
			var category string
			var count int
			if err := catRows.Scan(&category, &count); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process material counts"})
				return
			}
			if _, known := categoryCounts[category]; known {
				categoryCounts[category] = count
			}
		}

		var discoverable int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supplier_profiles WHERE discoverable`).Scan(&discoverable); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discoverable count"})
			return
		}
		var documents int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supplier_documents`).Scan(&documents); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch document count"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"suppliers_by_verification": verificationCounts,
			"materials_by_category":     categoryCounts,
			"discoverable_suppliers":    discoverable,
			"documents_total":           documents,
		})
	}
}
