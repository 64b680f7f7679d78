package fsmfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	StateRadius int
	FontSize    int
	Title       string
	// Highlight lists states drawn in the highlight colour, typically the
	// current states of a run.
	Highlight []string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     50,
		StateRadius: 28,
		FontSize:    14,
	}
}

// supersample is the factor the diagram is drawn at before downsampling.
const supersample = 4

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorBlack      = color.RGBA{51, 51, 51, 255}    // #333
	colorInitial    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorInitialBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorAccepting  = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorAcceptBdr  = color.RGBA{230, 81, 0, 255}    // #e65100
	colorHighlight  = color.RGBA{255, 249, 196, 255} // #fff9c4
	colorHighBdr    = color.RGBA{245, 127, 23, 255}  // #f57f17
)

// canvas is a supersampled drawing surface.
type canvas struct {
	img   *image.RGBA
	scale float64
	line  float64
	face  font.Face
}

func newCanvas(w, h, fontSize int) (*canvas, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * supersample),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w*supersample, h*supersample))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)
	return &canvas{img: img, scale: supersample, line: 2 * supersample, face: face}, nil
}

// point is a position in supersampled pixels.
type point struct{ x, y float64 }

// RenderPNG renders an FSM to PNG. States sit on a circle in state order;
// parallel transitions share one labelled edge.
func RenderPNG(f *fsm.FSM, w io.Writer, opts PNGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	c, err := newCanvas(opts.Width, opts.Height, opts.FontSize)
	if err != nil {
		return err
	}

	top := float64(opts.Padding)
	if opts.Title != "" {
		c.text(point{float64(opts.Width) / 2 * c.scale, 25 * c.scale}, opts.Title, colorBlack)
		top += 25
	}

	radius := float64(opts.StateRadius) * c.scale
	pos := circleLayout(f.States,
		point{float64(opts.Width) / 2 * c.scale, (top + float64(opts.Height-opts.Padding)) / 2 * c.scale},
		(math.Min(float64(opts.Width-2*opts.Padding), float64(opts.Height)-top-float64(opts.Padding))/2)*c.scale-radius)

	has := make(map[[2]string]bool)
	for _, e := range edges(f) {
		has[[2]string{e.from, e.to}] = true
	}
	for _, e := range edges(f) {
		label := strings.Join(e.labels, ",")
		from, to := pos[e.from], pos[e.to]
		switch {
		case e.from == e.to:
			c.selfLoop(from, radius, label)
		case has[[2]string{e.to, e.from}]:
			c.curvedEdge(from, to, radius, label)
		default:
			c.straightEdge(from, to, radius, label)
		}
	}

	if p, ok := pos[f.Initial]; ok {
		c.arrow(point{p.x - radius - 30*c.scale, p.y}, point{p.x - radius - 2*c.scale, p.y}, colorBlack)
	}

	highlight := make(map[string]bool, len(opts.Highlight))
	for _, s := range opts.Highlight {
		highlight[s] = true
	}
	for _, s := range f.States {
		fill, border := colorWhite, colorBlack
		switch {
		case highlight[s]:
			fill, border = colorHighlight, colorHighBdr
		case s == f.Initial:
			fill, border = colorInitial, colorInitialBdr
		case f.IsAccepting(s):
			fill, border = colorAccepting, colorAcceptBdr
		}
		p := pos[s]
		c.circle(p, radius, fill, border)
		if f.IsAccepting(s) {
			c.circle(p, radius-5*c.scale, nil, border)
		}
		c.text(p, s, colorBlack)
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), c.img, c.img.Bounds(), draw.Over, nil)
	return png.Encode(w, out)
}

// circleLayout places states evenly on a circle, starting at nine o'clock
// so the initial state usually sits on the left.
func circleLayout(states []string, centre point, r float64) map[string]point {
	pos := make(map[string]point, len(states))
	if len(states) == 1 {
		pos[states[0]] = centre
		return pos
	}
	r = math.Max(r, 0)
	for i, s := range states {
		a := math.Pi + 2*math.Pi*float64(i)/float64(len(states))
		pos[s] = point{centre.x + r*math.Cos(a), centre.y + r*math.Sin(a)}
	}
	return pos
}

// circle draws a circle outline with an optional fill.
func (c *canvas) circle(p point, r float64, fill, stroke color.Color) {
	if fill != nil {
		for dy := -r; dy <= r; dy++ {
			span := math.Sqrt(r*r - dy*dy)
			for dx := -span; dx <= span; dx++ {
				c.img.Set(int(p.x+dx), int(p.y+dy), fill)
			}
		}
	}
	for a := 0.0; a < 2*math.Pi; a += 0.5 / r {
		nx, ny := math.Cos(a), math.Sin(a)
		for t := -c.line / 2; t <= c.line/2; t += 0.5 {
			c.img.Set(int(p.x+nx*(r+t)), int(p.y+ny*(r+t)), stroke)
		}
	}
}

// segment draws a thick straight line.
func (c *canvas) segment(a, b point, col color.Color) {
	dx, dy := b.x-a.x, b.y-a.y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	px, py := -dy/dist, dx/dist
	for i := 0.0; i <= dist; i++ {
		t := i / dist
		cx, cy := a.x+dx*t, a.y+dy*t
		for o := -c.line / 2; o <= c.line/2; o += 0.5 {
			c.img.Set(int(cx+px*o), int(cy+py*o), col)
		}
	}
}

// arrowHead draws a filled head at tip pointing along (nx, ny).
func (c *canvas) arrowHead(tip point, nx, ny float64, col color.Color) {
	length, width := 9*c.scale, 4*c.scale
	l := point{tip.x - nx*length + ny*width, tip.y - ny*length - nx*width}
	r := point{tip.x - nx*length - ny*width, tip.y - ny*length + nx*width}
	for t := 0.0; t <= 1.0; t += 0.05 {
		c.segment(tip, point{l.x + (r.x-l.x)*t, l.y + (r.y-l.y)*t}, col)
	}
}

func (c *canvas) arrow(a, b point, col color.Color) {
	c.segment(a, b, col)
	d := math.Hypot(b.x-a.x, b.y-a.y)
	if d >= 1 {
		c.arrowHead(b, (b.x-a.x)/d, (b.y-a.y)/d, col)
	}
}

// bezier draws a quadratic curve with an arrowhead at its end.
func (c *canvas) bezier(a, ctrl, b point, col color.Color) {
	const steps = 60
	prev := a
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		p := point{
			(1-t)*(1-t)*a.x + 2*(1-t)*t*ctrl.x + t*t*b.x,
			(1-t)*(1-t)*a.y + 2*(1-t)*t*ctrl.y + t*t*b.y,
		}
		c.segment(prev, p, col)
		prev = p
	}
	d := math.Hypot(b.x-ctrl.x, b.y-ctrl.y)
	if d >= 1 {
		c.arrowHead(b, (b.x-ctrl.x)/d, (b.y-ctrl.y)/d, col)
	}
}

func (c *canvas) straightEdge(from, to point, r float64, label string) {
	d := math.Hypot(to.x-from.x, to.y-from.y)
	if d < 1 {
		return
	}
	nx, ny := (to.x-from.x)/d, (to.y-from.y)/d
	a := point{from.x + nx*r, from.y + ny*r}
	b := point{to.x - nx*(r+2*c.scale), to.y - ny*(r+2*c.scale)}
	c.arrow(a, b, colorBlack)
	c.text(point{(a.x+b.x)/2 - ny*12*c.scale, (a.y+b.y)/2 + nx*12*c.scale}, label, colorBlack)
}

// curvedEdge bends to the left of its direction, so a pair of opposite
// edges does not overlap.
func (c *canvas) curvedEdge(from, to point, r float64, label string) {
	d := math.Hypot(to.x-from.x, to.y-from.y)
	if d < 1 {
		return
	}
	nx, ny := (to.x-from.x)/d, (to.y-from.y)/d
	px, py := ny, -nx
	bend := d * 0.2
	ctrl := point{(from.x+to.x)/2 + px*bend, (from.y+to.y)/2 + py*bend}

	leave := unit(ctrl.x-from.x, ctrl.y-from.y)
	enter := unit(ctrl.x-to.x, ctrl.y-to.y)
	a := point{from.x + leave.x*r, from.y + leave.y*r}
	b := point{to.x + enter.x*(r+2*c.scale), to.y + enter.y*(r+2*c.scale)}
	c.bezier(a, ctrl, b, colorBlack)

	mid := point{0.25*a.x + 0.5*ctrl.x + 0.25*b.x, 0.25*a.y + 0.5*ctrl.y + 0.25*b.y}
	c.text(point{mid.x + px*12*c.scale, mid.y + py*12*c.scale}, label, colorBlack)
}

// selfLoop draws a loop above the state.
func (c *canvas) selfLoop(p point, r float64, label string) {
	lr := r * 0.55
	centre := point{p.x, p.y - r - lr*0.6}
	start, end := 0.2*math.Pi, 0.8*math.Pi
	// the arc runs the long way round, from lower right to lower left
	const steps = 50
	var prev point
	for i := 0; i <= steps; i++ {
		a := start - float64(i)/steps*(2*math.Pi-(end-start))
		q := point{centre.x + lr*math.Cos(a), centre.y + lr*math.Sin(a)}
		if i > 0 {
			c.segment(prev, q, colorBlack)
		}
		prev = q
	}
	a := start - (2*math.Pi - (end - start))
	tangent := unit(lr*math.Sin(a), -lr*math.Cos(a))
	c.arrowHead(prev, tangent.x, tangent.y, colorBlack)
	c.text(point{centre.x, centre.y - lr - 8*c.scale}, label, colorBlack)
}

func unit(x, y float64) point {
	d := math.Hypot(x, y)
	if d == 0 {
		return point{}
	}
	return point{x / d, y / d}
}

// text draws s centred on p.
func (c *canvas) text(p point, s string, col color.Color) {
	width := font.MeasureString(c.face, s).Ceil()
	ascent := c.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(int(p.x)-width/2, int(p.y)+int(float64(ascent)*0.35)),
	}
	d.DrawString(s)
}
