package handlers

import (
	"encoding/csv"
	"fmt"
	"math"
	"net/http"
	"strings"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// preferenceLevel maps a 0..1 weight to the label printed on reports.
func preferenceLevel(v01 float64) string {
	pct := math.Round(v01 * 100)
	if pct <= 33 {
		return "Low"
	}
	if pct <= 66 {
		return "Medium"
	}
	return "High"
}

func exportFileStem(req models.ComparisonRequest) string {
	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		name = "procurement"
	}
	return strings.ReplaceAll(name, " ", "_") + "_procurement_" + req.BuyerPincode
}

func validLineItems(items []models.LineItem) []models.LineItem {
	valid := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Query) != "" && it.Qty > 0 {
			valid = append(valid, it)
		}
	}
	return valid
}

// rankForExport re-runs the comparison for an export request. Exports always
// recompute; aggregates are never persisted between runs.
func rankForExport(c *gin.Context, lister snapshotLister) (models.ComparisonRequest, []models.SupplierAggregate, bool) {
	var req models.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, nil, false
	}
	if msg := validateComparisonRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return req, nil, false
	}
	aggregates, err := services.RankSuppliers(lister, req.BuyerPincode, req.RadiusKm, req.Items, req.Prefs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Comparison failed", "details": err.Error()})
		return req, nil, false
	}
	return req, aggregates, true
}

var rankingHeader = []string{
	"rank", "supplier_name", "supplier_pincode", "verification", "rating",
	"past_clients", "docs_count", "distance_km", "eta", "risk_score",
	"total_landed_cost", "score",
}

func rankingRow(rank int, a models.SupplierAggregate) []string {
	return []string{
		fmt.Sprintf("%d", rank),
		a.SupplierName,
		a.SupplierPincode,
		a.Verification,
		fmt.Sprintf("%g", a.Rating),
		fmt.Sprintf("%d", a.PastClients),
		fmt.Sprintf("%d", a.DocsCount),
		fmt.Sprintf("%.0f", a.Km),
		a.Eta,
		fmt.Sprintf("%.0f", math.Round(a.RiskScore)),
		fmt.Sprintf("%.0f", math.Round(a.TotalLandedCost)),
		fmt.Sprintf("%.0f", math.Round(a.Score)),
	}
}

// ExportComparisonCSV godoc
// @Summary      Export a comparison run as CSV
// @Tags         export
// @Accept       json
// @Produce      text/csv
// @Param        request  body  models.ComparisonRequest  true  "Comparison run"
// @Success      200  {file}  file  "CSV file"
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/export/comparison/csv [post]
func ExportComparisonCSV(lister snapshotLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, aggregates, ok := rankForExport(c, lister)
		if !ok {
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment;filename="+exportFileStem(req)+".csv")

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		projectName := req.ProjectName
		if projectName == "" {
			projectName = "Procurement"
		}
		meta := [][]string{
			{"project", projectName},
			{"delivery_pincode", req.BuyerPincode},
			{"radius_km", fmt.Sprintf("%.0f", req.RadiusKm)},
			{"preference_price", preferenceLevel(req.Prefs.PrioritizePrice)},
			{"preference_speed", preferenceLevel(req.Prefs.PrioritizeSpeed)},
			{"preference_low_risk", preferenceLevel(req.Prefs.PrioritizeLowRisk)},
		}
		for _, row := range meta {
			if err := writer.Write(row); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
				return
			}
		}

		writer.Write([]string{})
		writer.Write([]string{"selected_items"})
		writer.Write([]string{"material_query", "qty"})
		for _, it := range validLineItems(req.Items) {
			writer.Write([]string{it.Query, fmt.Sprintf("%g", it.Qty)})
		}

		writer.Write([]string{})
		writer.Write([]string{"supplier_ranking"})
		writer.Write(rankingHeader)
		for i, a := range aggregates {
			if err := writer.Write(rankingRow(i+1, a)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
				return
			}
		}

		writer.Write([]string{})
		writer.Write([]string{"ai_summary"})
		writer.Write([]string{buildRecommendationSummary(aggregates)})
	}
}

// ExportComparisonExcel godoc
// @Summary      Export a comparison run as an Excel workbook
// @Tags         export
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        request  body  models.ComparisonRequest  true  "Comparison run"
// @Success      200  {file}  file  "XLSX file"
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/export/comparison/xlsx [post]
func ExportComparisonExcel(lister snapshotLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, aggregates, ok := rankForExport(c, lister)
		if !ok {
			return
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Ranking"
		f.SetSheetName("Sheet1", sheet)

		projectName := req.ProjectName
		if projectName == "" {
			projectName = "Procurement"
		}
		f.SetCellValue(sheet, "A1", projectName+" — Procurement Analysis")
		f.SetCellValue(sheet, "A2", "Delivery pincode")
		f.SetCellValue(sheet, "B2", req.BuyerPincode)
		f.SetCellValue(sheet, "A3", "Radius (km)")
		f.SetCellValue(sheet, "B3", req.RadiusKm)
		f.SetCellValue(sheet, "A4", "Preferences")
		f.SetCellValue(sheet, "B4", fmt.Sprintf("Price %s, Speed %s, Low Risk %s",
			preferenceLevel(req.Prefs.PrioritizePrice),
			preferenceLevel(req.Prefs.PrioritizeSpeed),
			preferenceLevel(req.Prefs.PrioritizeLowRisk)))

		row := 6
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Material")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Qty")
		row++
		for _, it := range validLineItems(req.Items) {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Query)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Qty)
			row++
		}

		row++
		for col, h := range rankingHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, h)
		}
		row++
		for i, a := range aggregates {
			values := []interface{}{
				i + 1, a.SupplierName, a.SupplierPincode, a.Verification, a.Rating,
				a.PastClients, a.DocsCount, a.Km, a.Eta, math.Round(a.RiskScore),
				math.Round(a.TotalLandedCost), math.Round(a.Score),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "AI summary")
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), buildRecommendationSummary(aggregates))

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment;filename="+exportFileStem(req)+".xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}
