package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"os"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

// addLabel adds text to an image at the specified position
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16
	if bold {
		col = color.RGBA{30, 30, 30, 255}
		face = inconsolata.Bold8x16
	}

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// SupplierQRCodeJPEG godoc
// @Summary      Generate supplier storefront QR code as JPEG
// @Tags         qr
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id}/qr [get]
func SupplierQRCodeJPEG(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var supplier models.SupplierProfileGorm
		if err := db.Where("id = ?", c.Param("id")).First(&supplier).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		baseURL := os.Getenv("STOREFRONT_BASE_URL")
		if baseURL == "" {
			baseURL = "https://sahidam.example.com"
		}
		storefrontURL := baseURL + "/suppliers/" + supplier.ID

		qrImg, err := qrcode.New(storefrontURL, qrcode.Medium)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}

		const qrSize = 256
		const footer = 56
		qr := qrImg.Image(qrSize)

		canvas := image.NewRGBA(image.Rect(0, 0, qrSize, qrSize+footer))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(0, 0, qrSize, qrSize), qr, image.Point{}, draw.Over)

		addLabel(canvas, 12, qrSize+20, supplier.BusinessName, true)
		addLabel(canvas, 12, qrSize+40, "Pincode "+supplier.Pincode, false)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode image"})
			return
		}

		c.Header("Content-Disposition", "attachment;filename="+supplier.ID+".jpg")
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
