package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiSummary rewrites the summary for gofpdf's cp1252 core fonts.
func asciiSummary(s string) string {
	return strings.NewReplacer("₹", "Rs ", "•", "-", "≈", "~", "–", "-").Replace(s)
}

// ExportComparisonPDF godoc
// @Summary      Generate procurement analysis PDF
// @Tags         export
// @Accept       json
// @Produce      application/pdf
// @Param        request  body  models.ComparisonRequest  true  "Comparison run"
// @Success      200  "PDF file"
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/export/comparison/pdf [post]
func ExportComparisonPDF(lister snapshotLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, aggregates, ok := rankForExport(c, lister)
		if !ok {
			return
		}

		titleCaser := cases.Title(language.Und)

		projectName := req.ProjectName
		if projectName == "" {
			projectName = "Procurement"
		}

		pdf := gofpdf.New("P", "pt", "A4", "")
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 24, fmt.Sprintf("%s - Procurement Analysis", projectName), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 16, fmt.Sprintf("Delivery: %s | Radius: %.0f km", req.BuyerPincode, req.RadiusKm), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 16, fmt.Sprintf("Preferences: Price %s, Speed %s, Low Risk %s",
			preferenceLevel(req.Prefs.PrioritizePrice),
			preferenceLevel(req.Prefs.PrioritizeSpeed),
			preferenceLevel(req.Prefs.PrioritizeLowRisk)), "", 1, "L", false, 0, "")
		pdf.Ln(8)

		// Line item table
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(20, 90, 95)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(300, 18, "Material", "1", 0, "L", true, 0, "")
		pdf.CellFormat(80, 18, "Qty", "1", 1, "R", true, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, it := range validLineItems(req.Items) {
			pdf.CellFormat(300, 16, it.Query, "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 16, fmt.Sprintf("%g", it.Qty), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(12)

		// Ranking table
		type column struct {
			label string
			width float64
		}
		columns := []column{
			{"#", 20}, {"Supplier", 140}, {"Verif", 60}, {"Km", 36},
			{"ETA", 60}, {"Risk", 36}, {"Total", 90}, {"Score", 40},
		}
		pdf.SetFont("Arial", "B", 8)
		pdf.SetTextColor(255, 255, 255)
		for _, col := range columns {
			pdf.CellFormat(col.width, 18, col.label, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(0, 0, 0)
		for i, a := range aggregates {
			cells := []string{
				fmt.Sprintf("%d", i+1),
				a.SupplierName,
				titleCaser.String(a.Verification),
				fmt.Sprintf("%.0f", a.Km),
				a.Eta,
				fmt.Sprintf("%.0f", math.Round(a.RiskScore)),
				fmt.Sprintf("Rs %.0f", math.Round(a.TotalLandedCost)),
				fmt.Sprintf("%.0f", math.Round(a.Score)),
			}
			for j, cell := range cells {
				pdf.CellFormat(columns[j].width, 16, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 16, "AI summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(520, 13, asciiSummary(buildRecommendationSummary(aggregates)), "", "L", false)

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", "attachment;filename="+exportFileStem(req)+".pdf")
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing PDF file"})
			return
		}
	}
}
