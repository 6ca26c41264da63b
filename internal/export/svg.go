package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/uniconv/internal/convergence"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 320

	background  = "#0a0a0a"
	lineColor   = "#00ff00"
	limitColor  = "#ff5f5f"
	probeRadius = 3.0
)

// Point is one (n, distance) sample of a chart.
type Point struct {
	N        int
	Distance float64
}

// TracePoints returns the probes of res in visit order.
func TracePoints(res convergence.Result) []Point {
	pts := make([]Point, len(res.Trace))
	for i, p := range res.Trace {
		pts[i] = Point{N: p.N, Distance: p.Distance}
	}
	return pts
}

// ProfilePoints returns the profile samples in n order.
func ProfilePoints(profile []convergence.ProfilePoint) []Point {
	pts := make([]Point, len(profile))
	for i, p := range profile {
		pts[i] = Point{N: p.N, Distance: p.Distance}
	}
	return pts
}

// WriteSVG draws the points as a polyline in log10 distance against n,
// with a dashed line at epsilon when epsilon is positive. Non-finite and
// non-positive distances are skipped.
func WriteSVG(w io.Writer, pts []Point, epsilon float64, width, height int) error {
	_, err := io.WriteString(w, ChartSVG(pts, epsilon, width, height))
	return err
}

func ChartSVG(pts []Point, epsilon float64, width, height int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	type xy struct{ x, y float64 }
	var data []xy
	for _, p := range pts {
		if math.IsNaN(p.Distance) || math.IsInf(p.Distance, 0) || p.Distance <= 0 {
			continue
		}
		data = append(data, xy{float64(p.N), math.Log10(p.Distance)})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	if len(data) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, maxX := data[0].x, data[0].x
	minY, maxY := data[0].y, data[0].y
	for _, p := range data {
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}
	logEps := math.NaN()
	if epsilon > 0 && !math.IsInf(epsilon, 0) {
		logEps = math.Log10(epsilon)
		minY, maxY = min(minY, logEps), max(maxY, logEps)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding on each side
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	if !math.IsNaN(logEps) {
		y := py(logEps)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6,4"/>
`, y, width, y, limitColor))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, lineColor))
	for i, p := range data {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(p.x), py(p.y)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(p.x), py(p.y)))
		}
	}
	sb.WriteString("\"/>\n")

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", lineColor))
	for _, p := range data {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, px(p.x), py(p.y), probeRadius))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
