package shape

import (
	"math"
	"strconv"
	"strings"

	"design-importer/internal/importer/models"
)

// ============================================================
// Path Synthesizer
// ============================================================

// Аппроксимация дуги окружности кубической Безье: k = 4*(sqrt(2)-1)/3.
const kappa = 0.5523

// PathData строит path для маски в локальных координатах [0,w]x[0,h].
// Используются только команды M, L, C, Z: ровно один M и один Z.
// Неизвестная форма -> ("", false), вызывающий падает на raster crop.
func PathData(clip models.ClipShape, width, height float64) (string, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}

	switch clip.Type {
	case models.ShapeEllipse:
		return ellipsePath(width, height), true
	case models.ShapeRoundedRect:
		return roundedRectPath(width, height, clip.CornerRadius), true
	}
	return "", false
}

// ellipsePath: четыре кубических сегмента вокруг центра (w/2, h/2).
func ellipsePath(w, h float64) string {
	cx, cy := w/2, h/2
	rx, ry := w/2, h/2
	ox, oy := rx*kappa, ry*kappa

	var b strings.Builder
	moveTo(&b, cx+rx, cy)
	curveTo(&b, cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	curveTo(&b, cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	curveTo(&b, cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	curveTo(&b, cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	b.WriteString("Z")
	return b.String()
}

// roundedRectPath: радиус зажимается до min(w,h)/2, чтобы углы
// не пересекались; r <= 0 дает обычный прямоугольник.
func roundedRectPath(w, h, radius float64) string {
	r := math.Min(radius, math.Min(w, h)/2)

	var b strings.Builder
	if r <= 0 {
		moveTo(&b, 0, 0)
		lineTo(&b, w, 0)
		lineTo(&b, w, h)
		lineTo(&b, 0, h)
		b.WriteString("Z")
		return b.String()
	}

	c := r * kappa
	moveTo(&b, r, 0)
	lineTo(&b, w-r, 0)
	curveTo(&b, w-r+c, 0, w, r-c, w, r)
	lineTo(&b, w, h-r)
	curveTo(&b, w, h-r+c, w-r+c, h, w-r, h)
	lineTo(&b, r, h)
	curveTo(&b, r-c, h, 0, h-r+c, 0, h-r)
	lineTo(&b, 0, r)
	curveTo(&b, 0, r-c, r-c, 0, r, 0)
	b.WriteString("Z")
	return b.String()
}

// ============================================================
// Path writing
// ============================================================

func moveTo(b *strings.Builder, x, y float64) {
	b.WriteString("M " + num(x) + " " + num(y) + " ")
}

func lineTo(b *strings.Builder, x, y float64) {
	b.WriteString("L " + num(x) + " " + num(y) + " ")
}

func curveTo(b *strings.Builder, x1, y1, x2, y2, x, y float64) {
	b.WriteString("C " + num(x1) + " " + num(y1) + " " +
		num(x2) + " " + num(y2) + " " +
		num(x) + " " + num(y) + " ")
}

// num округляет до 2 знаков и убирает хвостовые нули.
func num(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
