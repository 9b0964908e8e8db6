package viz

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Vec3 is a point in camera space: x right, y up, z towards the viewer.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// FromPoint converts a model position, z up, into camera space, y up.
func FromPoint(p dynamo.Point) Vec3 { return Vec3{X: p.X, Y: p.Z, Z: p.Y} }

// Camera looks at the pivot from Distance along +z after tilting the scene
// by RotX and turning it by RotY.
type Camera struct {
	Distance, Near float64
	RotX, RotY     float64
	Zoom           float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p onto a sw×sh pixel grid with the pivot at the centre.
// It returns the pixel, the depth and whether the pixel is on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	px := float64(min(sw, sh)) / 3
	sx := int(rot.X*persp*px) + sw/2
	sy := int(-rot.Y*persp*px) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

// Wireframe is the static scenery drawn behind the bob.
type Wireframe struct{ Edges []Edge }

func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

// Render3D draws every edge with at least one visible end.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Pixels()
	for _, e := range w.Edges {
		x1, y1, _, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, _, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			c.DrawLine(x1, y1, x2, y2)
		}
	}
}

// CreateSphereGuide draws the horizontal circle through the pivot and the
// vertical meridian of a sphere of radius r.
func CreateSphereGuide(r float64, segments int) *Wireframe {
	w := &Wireframe{}
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		w.AddEdge(Vec3{r * math.Cos(a0), 0, r * math.Sin(a0)}, Vec3{r * math.Cos(a1), 0, r * math.Sin(a1)})
		w.AddEdge(Vec3{r * math.Sin(a0), -r * math.Cos(a0), 0}, Vec3{r * math.Sin(a1), -r * math.Cos(a1), 0})
	}
	return w
}

// CreateAxesWireframe draws the three axes from the pivot with length l.
func CreateAxesWireframe(l float64) *Wireframe {
	w, o := &Wireframe{}, Vec3{}
	w.AddEdge(o, Vec3{l, 0, 0})
	w.AddEdge(o, Vec3{0, l, 0})
	w.AddEdge(o, Vec3{0, 0, l})
	return w
}
