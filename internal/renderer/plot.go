package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/camrigs/internal/system"
	"github.com/ivlev/camrigs/internal/track"
)

// PlotOptions control the top-down path plot
type PlotOptions struct {
	Width       int
	Height      int
	Margin      int
	MarkerEvery int    // Draw a camera marker every N samples; 0 picks about 12 markers
	Title       string // Defaults to the rig name
	QRContent   string // Encoded in a corner stamp when not empty
}

// DefaultPlotOptions returns a 1024x1024 plot with a 48 px margin
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 1024, Height: 1024, Margin: 48}
}

var (
	colorBackground = color.RGBA{0x1e, 0x1f, 0x24, 0xff}
	colorGrid       = color.RGBA{0x33, 0x35, 0x3d, 0xff}
	colorPath       = color.RGBA{0x4f, 0xa3, 0xff, 0xff}
	colorCamera     = color.RGBA{0xff, 0xc1, 0x4d, 0xff}
	colorTarget     = color.RGBA{0xff, 0x5c, 0x5c, 0xff}
	colorText       = color.RGBA{0xe6, 0xe6, 0xe6, 0xff}
)

const headerHeight = 24

var ErrNoSamples = errors.New("nothing to plot: track has no samples")

// view maps world XY (Z up) onto image pixels, Y pointing up
type view struct {
	originX, originY float64
	scale            float64
	cx, cy           float64
}

func newView(tr *track.Track, opts PlotOptions) view {
	lo, hi := tr.Bounds()
	spanX := hi.X() - lo.X()
	spanY := hi.Y() - lo.Y()
	if spanX < 1 {
		spanX = 1
	}
	if spanY < 1 {
		spanY = 1
	}

	areaW := float64(opts.Width - 2*opts.Margin)
	areaH := float64(opts.Height - 2*opts.Margin - headerHeight)

	return view{
		originX: (lo.X() + hi.X()) / 2,
		originY: (lo.Y() + hi.Y()) / 2,
		scale:   math.Min(areaW/spanX, areaH/spanY),
		cx:      float64(opts.Width) / 2,
		cy:      float64(headerHeight) + float64(opts.Height-headerHeight)/2,
	}
}

func (v view) project(p [3]float64) (float32, float32) {
	x := v.cx + (p[0]-v.originX)*v.scale
	y := v.cy - (p[1]-v.originY)*v.scale
	return float32(x), float32(y)
}

// Plot draws the camera path of a track seen from above
func Plot(tr *track.Track, opts PlotOptions) (*image.RGBA, error) {
	if tr == nil || len(tr.Samples) == 0 {
		return nil, ErrNoSamples
	}
	if opts.Width-2*opts.Margin < 64 || opts.Height-2*opts.Margin-headerHeight < 64 {
		return nil, fmt.Errorf("plot area %dx%d with margin %d is too small", opts.Width, opts.Height, opts.Margin)
	}
	if opts.Title == "" {
		opts.Title = tr.Rig
	}
	every := opts.MarkerEvery
	if every <= 0 {
		every = len(tr.Samples) / 12
		if every < 1 {
			every = 1
		}
	}

	img := system.GetImage(image.Rect(0, 0, opts.Width, opts.Height), colorBackground)
	v := newView(tr, opts)
	c := newCanvas(img)

	drawGrid(c, v, opts)

	// Path
	for i := 1; i < len(tr.Samples); i++ {
		ax, ay := v.project(tr.Samples[i-1].Position)
		bx, by := v.project(tr.Samples[i].Position)
		c.segment(ax, ay, bx, by, 2)
	}
	c.fill(colorPath)

	// Camera markers with a tick along the view direction
	for i := 0; i < len(tr.Samples); i += every {
		s := tr.Samples[i]
		x, y := v.project(s.Position)
		c.disc(x, y, 5)
		fx, fy := float32(s.Forward[0]), -float32(s.Forward[1])
		if n := float32(math.Hypot(float64(fx), float64(fy))); n > 1e-6 {
			c.segment(x, y, x+fx/n*18, y+fy/n*18, 2)
		}
	}
	c.fill(colorCamera)

	tx, ty := v.project(tr.Target)
	c.segment(tx-8, ty-8, tx+8, ty+8, 2)
	c.segment(tx-8, ty+8, tx+8, ty-8, 2)
	c.fill(colorTarget)

	label(img, 8, 16, opts.Title)
	first, last := tr.Samples[0], tr.Samples[len(tr.Samples)-1]
	label(img, 8, opts.Height-8, fmt.Sprintf("frames %.1f..%.1f  samples %d  fps %.0f", first.Frame, last.Frame, len(tr.Samples), tr.FPS))

	if opts.QRContent != "" {
		if err := stampQR(img, opts.QRContent); err != nil {
			system.PutImage(img)
			return nil, err
		}
	}

	return img, nil
}

const maxGridLines = 200

// drawGrid draws one line per metre, or per ten metres when that would be too
// dense. Wider views step by further powers of ten.
func drawGrid(c *canvas, v view, opts PlotOptions) {
	step := 1.0
	if v.scale < 8 {
		step = 10
	}

	minX := v.originX - (v.cx)/v.scale
	maxX := v.originX + (float64(opts.Width)-v.cx)/v.scale
	minY := v.originY - (float64(opts.Height)-v.cy)/v.scale
	maxY := v.originY + (v.cy-headerHeight)/v.scale

	span := math.Max(maxX-minX, maxY-minY)
	if !(span > 0) || math.IsInf(span, 0) {
		return
	}
	for span/step > maxGridLines {
		step *= 10
	}

	for _, x := range gridLines(minX, maxX, step) {
		px, _ := v.project([3]float64{x, 0, 0})
		c.segment(px, headerHeight, px, float32(opts.Height), 1)
	}
	for _, y := range gridLines(minY, maxY, step) {
		_, py := v.project([3]float64{0, y, 0})
		c.segment(0, py, float32(opts.Width), py, 1)
	}
	c.fill(colorGrid)
}

// gridLines lists the multiples of step in [lo, hi], computed by index.
func gridLines(lo, hi, step float64) []float64 {
	first := math.Ceil(lo/step) * step
	count := math.Floor((hi-first)/step) + 1
	if !(count > 0) {
		return nil
	}
	n := int(math.Min(count, maxGridLines+1))
	lines := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, first+float64(i)*step)
	}
	return lines
}

func label(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func stampQR(img *image.RGBA, content string) error {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr stamp: %w", err)
	}
	size := img.Bounds().Dx() / 8
	if size < 64 {
		size = 64
	}
	stamp := qr.Image(size)
	b := img.Bounds()
	at := image.Pt(b.Max.X-stamp.Bounds().Dx()-8, b.Max.Y-stamp.Bounds().Dy()-8)
	draw.Draw(img, stamp.Bounds().Add(at), stamp, stamp.Bounds().Min, draw.Src)
	return nil
}

// WritePNG encodes img to path, creating parent directories
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
