package handlers

import (
	"database/sql"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel draws text onto the label image at the given position
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	col := color.RGBA{0, 0, 0, 255}

	face := inconsolata.Regular8x16
	if bold {
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

// GetCableQRLabel renders a printable QR label for one cable: the QR encodes
// the job and cable number, with the cable size and route printed beneath for
// site use.
// @Summary Cable QR label
// @Tags Cables
// @Produce image/png
// @Param job_no path string true "Job number"
// @Param cab_num path string true "Cable number"
// @Success 200 {file} file "PNG image"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cables/{job_no}/{cab_num}/qr [get]
func GetCableQRLabel(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobNo := c.Param("job_no")
		cabNum := c.Param("cab_num")

		var cabSize, equipRef, aArea, zArea string
		err := db.QueryRow(`
			SELECT cabsize, COALESCE(equipref, ''), COALESCE(aglandarea, ''), COALESCE(zglandarea, '')
			FROM cabsched
			WHERE jobno = $1 AND cabnum = $2`, jobNo, cabNum).
			Scan(&cabSize, &equipRef, &aArea, &zArea)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cable not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cable"})
			return
		}

		qr, err := qrcode.New(jobNo+"/"+cabNum, qrcode.Medium)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}
		qrImg := qr.Image(220)

		// QR on top, three lines of label text underneath
		label := image.NewRGBA(image.Rect(0, 0, 260, 300))
		draw.Draw(label, label.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(label, image.Rect(20, 5, 240, 225), qrImg, image.Point{}, draw.Over)

		addLabel(label, 20, 245, cabNum, true)
		addLabel(label, 20, 263, cabSize, false)
		addLabel(label, 20, 281, aArea+" -> "+zArea, false)

		c.Header("Content-Type", "image/png")
		c.Header("Content-Disposition", "attachment;filename="+cabNum+".png")

		if err := png.Encode(c.Writer, label); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode label"})
		}
	}
}
