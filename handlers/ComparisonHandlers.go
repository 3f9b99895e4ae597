package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// snapshotLister is what the comparison handlers need from the marketplace
// repository; tests inject fixtures through it.
type snapshotLister interface {
	ListSnapshots(materialQuery string) ([]models.SupplierSnapshot, error)
}

func validateComparisonRequest(req *models.ComparisonRequest) string {
	if !services.IsValidPincode(req.BuyerPincode) {
		return "buyer_pincode must be a 6-digit pincode"
	}
	if req.RadiusKm <= 0 {
		req.RadiusKm = 50
	}
	hasItem := false
	for _, it := range req.Items {
		if it.Qty < 0 {
			return "item qty must not be negative"
		}
		if strings.TrimSpace(it.Query) != "" && it.Qty > 0 {
			hasItem = true
		}
	}
	if !hasItem {
		return "at least one line item with a material query and qty > 0 is required"
	}
	return ""
}

// CompareSuppliers godoc
// @Summary      Rank suppliers for a basket of line items
// @Description  Quotes every discoverable candidate per item, keeps the best
// @Description  quote per supplier, and ranks suppliers that cover every item.
// @Description  An empty supplier list is a valid outcome, not an error.
// @Tags         comparison
// @Accept       json
// @Produce      json
// @Param        request  body  models.ComparisonRequest  true  "Comparison run"
// @Success      200  {object}  models.ComparisonResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/compare [post]
func CompareSuppliers(lister snapshotLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ComparisonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if msg := validateComparisonRequest(&req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		aggregates, err := services.RankSuppliers(lister, req.BuyerPincode, req.RadiusKm, req.Items, req.Prefs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Comparison failed", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.ComparisonResponse{
			Suppliers: aggregates,
			Summary:   buildRecommendationSummary(aggregates),
		})
	}
}

// QuoteSnapshot godoc
// @Summary      Quote one supplier snapshot
// @Description  Used by the supplier dashboard to preview how a listing
// @Description  scores for a given buyer location and quantity.
// @Tags         comparison
// @Accept       json
// @Produce      json
// @Param        request  body  models.QuoteRequest  true  "Single quote"
// @Success      200  {object}  models.SupplierQuote
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/quote [post]
func QuoteSnapshot() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !services.IsValidPincode(req.BuyerPincode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "buyer_pincode must be a 6-digit pincode"})
			return
		}
		if req.Qty <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "qty must be > 0"})
			return
		}

		marketMin := req.MarketMinUnitPrice
		marketMax := req.MarketMaxUnitPrice
		if marketMin == 0 && marketMax == 0 {
			// Preview without market context: normalize against itself.
			marketMin = req.Snapshot.Material.UnitBasePrice
			marketMax = req.Snapshot.Material.UnitBasePrice
		}

		quote := services.QuoteSupplier(req.BuyerPincode, req.Qty, req.Snapshot, req.Prefs, marketMin, marketMax)
		c.JSON(http.StatusOK, quote)
	}
}

// buildRecommendationSummary turns a ranked run into the one-paragraph
// recommendation shown on dashboards and printed on exports.
func buildRecommendationSummary(aggregates []models.SupplierAggregate) string {
	if len(aggregates) == 0 {
		return "Run a comparison to generate a recommendation summary."
	}
	top := aggregates[0]
	itemParts := make([]string, 0, len(top.Items))
	for _, it := range top.Items {
		itemParts = append(itemParts, fmt.Sprintf("%s: ₹%.0f (%.0fkm)", it.LineItemQuery, math.Round(it.TotalLandedCost), it.Km))
	}
	return fmt.Sprintf(
		"Top pick is %s. It covers all selected items with a balanced score (≈%.0f/100) and average risk (%.0f/100). Item totals: %s.",
		top.SupplierName, math.Round(top.Score), math.Round(top.RiskScore), strings.Join(itemParts, " • "),
	)
}
