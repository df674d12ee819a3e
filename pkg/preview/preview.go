// Package preview rasterizes composed frames to images with a software
// renderer, for thumbnails and flip-book sequences.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/chazu/foldnet/pkg/kernel"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/chazu/foldnet/pkg/tessellate"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("preview: no geometry")

// Options controls the output image and camera.
type Options struct {
	Width       int
	Height      int
	Supersample int     // render at this multiple, then downsample
	Background  string  // hex color
	FovY        float64 // degrees
	Azimuth     float64 // degrees around +y, 0 looks from +z
	Elevation   float64 // degrees above the xz plane
}

// DefaultOptions is a three-quarter view from above.
var DefaultOptions = Options{
	Width:       800,
	Height:      600,
	Supersample: 2,
	Background:  "#ffffff",
	FovY:        30,
	Azimuth:     35,
	Elevation:   30,
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultOptions.Height
	}
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	if o.Background == "" {
		o.Background = DefaultOptions.Background
	}
	if o.FovY <= 0 || o.FovY >= 180 {
		o.FovY = DefaultOptions.FovY
	}
	return o
}

// faceShader lights both sides of a face alike and takes its color from
// the vertices, so one draw call covers a whole multi-colored net.
type faceShader struct {
	matrix  fauxgl.Matrix
	light   fauxgl.Vector
	ambient float64
}

func (s *faceShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *faceShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	d := math.Abs(v.Normal.Normalize().Dot(s.light))
	k := s.ambient + (1-s.ambient)*d
	return fauxgl.Color{R: v.Color.R * k, G: v.Color.G * k, B: v.Color.B * k, A: 1}
}

func triangles(meshes []*kernel.Mesh) []*fauxgl.Triangle {
	var tris []*fauxgl.Triangle
	for _, m := range meshes {
		if m == nil {
			continue
		}
		c := fauxgl.HexColor("#9ca3af")
		if m.Color != "" {
			c = fauxgl.HexColor(m.Color)
		}
		for i := 0; i < m.TriangleCount(); i++ {
			var vs [3]fauxgl.Vertex
			for j := 0; j < 3; j++ {
				idx := int(m.Indices[3*i+j])
				p := m.Vertex(idx)
				vs[j].Position = fauxgl.V(float64(p[0]), float64(p[1]), float64(p[2]))
				vs[j].Color = c
			}
			t := fauxgl.NewTriangle(vs[0], vs[1], vs[2])
			t.FixNormals()
			tris = append(tris, t)
		}
	}
	return tris
}

// RenderMeshes draws meshes fitted to the view.
func RenderMeshes(meshes []*kernel.Mesh, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	tris := triangles(meshes)
	if len(tris) == 0 {
		return nil, ErrEmpty
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	box := mesh.BoundingBox()
	center := box.Center()
	radius := box.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}

	az := opts.Azimuth * math.Pi / 180
	el := opts.Elevation * math.Pi / 180
	dir := fauxgl.V(math.Cos(el)*math.Sin(az), math.Sin(el), math.Cos(el)*math.Cos(az))
	dist := radius / math.Sin(opts.FovY*math.Pi/360) * 1.1
	eye := center.Add(dir.MulScalar(dist))
	up := fauxgl.V(0, 1, 0)

	w, h := opts.Width*opts.Supersample, opts.Height*opts.Supersample
	aspect := float64(w) / float64(h)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(opts.FovY, aspect, dist/100, dist*3)

	context := fauxgl.NewContext(w, h)
	context.ClearColorBufferWith(fauxgl.HexColor(opts.Background))
	context.ClearDepthBuffer()
	context.Cull = fauxgl.CullNone
	context.Shader = &faceShader{
		matrix:  matrix,
		light:   fauxgl.V(-0.75, 1, 0.25).Normalize(),
		ambient: 0.45,
	}
	context.DrawMesh(mesh)

	var img image.Image = context.Image()
	if opts.Supersample > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// Render draws one frame.
func Render(frame *shape.Frame, opts Options) (image.Image, error) {
	meshes, err := tessellate.Tessellate(frame.Faces)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return RenderMeshes(meshes, opts)
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Save renders frame and writes it to path as PNG.
func Save(path string, frame *shape.Frame, opts Options) error {
	img, err := Render(frame, opts)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}
