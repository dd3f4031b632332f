// Package export writes sampled camera tracks as glTF 2.0 camera animations.
package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ivlev/camrigs/internal/rig"
	"github.com/ivlev/camrigs/internal/track"
)

// Options control the exported camera projection.
type Options struct {
	AspectRatio float64 // Width / height; 16:9 when zero
	SensorWidth float64 // Millimetres; 36 when zero
	OrthoScale  float64 // Full width of the view for orthographic cameras; 10 when zero
	ZNear       float64
	ZFar        float64
}

func (o Options) withDefaults() Options {
	if o.AspectRatio <= 0 {
		o.AspectRatio = 16.0 / 9.0
	}
	if o.SensorWidth <= 0 {
		o.SensorWidth = rig.DefaultSensorWidth
	}
	if o.OrthoScale <= 0 {
		o.OrthoScale = 10
	}
	if o.ZNear <= 0 {
		o.ZNear = 0.1
	}
	if o.ZFar <= o.ZNear {
		o.ZFar = 1000
	}
	return o
}

var ErrEmptyTrack = errors.New("track has no samples")

// zUpToYUp maps the host's Z-up world onto glTF's Y-up convention.
var zUpToYUp = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})

// Document builds a glTF document holding one camera node animated along the track.
func Document(tr *track.Track, opts Options) (*gltf.Document, error) {
	if tr == nil || len(tr.Samples) == 0 {
		return nil, ErrEmptyTrack
	}
	opts = opts.withDefaults()

	doc := gltf.NewDocument()
	doc.Asset.Generator = "camrigs"

	first := tr.Samples[0]
	doc.Cameras = []*gltf.Camera{camera(tr.Rig, first.FocalLength, opts)}

	pos, rot := toYUp(first.Pose())
	doc.Nodes = []*gltf.Node{{
		Name:        tr.Rig + "_camera",
		Camera:      gltf.Index(0),
		Translation: vec3f64(pos),
		Rotation:    quatf64(rot),
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	times := make([]float32, len(tr.Samples))
	translations := make([][3]float32, len(tr.Samples))
	rotations := make([][4]float32, len(tr.Samples))
	for i, s := range tr.Samples {
		times[i] = float32(tr.Seconds(s) - tr.Seconds(first))
		if i > 0 && times[i] <= times[i-1] {
			return nil, fmt.Errorf("sample %d: frames must increase (%.3f after %.3f)", i, s.Frame, tr.Samples[i-1].Frame)
		}
		p, q := toYUp(s.Pose())
		translations[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		rotations[i] = [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)}
	}

	input := modeler.WriteAccessor(doc, gltf.TargetNone, times)
	doc.Accessors[input].Min = []float64{float64(times[0])}
	doc.Accessors[input].Max = []float64{float64(times[len(times)-1])}
	posOut := modeler.WriteAccessor(doc, gltf.TargetNone, translations)
	rotOut := modeler.WriteAccessor(doc, gltf.TargetNone, rotations)

	doc.Animations = []*gltf.Animation{{
		Name: tr.Rig,
		Samplers: []*gltf.AnimationSampler{
			{Input: input, Output: posOut, Interpolation: gltf.InterpolationLinear},
			{Input: input, Output: rotOut, Interpolation: gltf.InterpolationLinear},
		},
		Channels: []*gltf.Channel{
			{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation}},
			{Sampler: gltf.Index(1), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSRotation}},
		},
	}}

	return doc, nil
}

// WriteGLTF saves the track animation; a .glb path produces the binary container.
func WriteGLTF(path string, tr *track.Track, opts Options) error {
	doc, err := Document(tr, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		doc.Buffers[0].EmbeddedResource()
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("write gltf %s: %w", path, err)
	}
	return nil
}

func camera(name string, focal float64, opts Options) *gltf.Camera {
	zfar := opts.ZFar
	if focal <= 0 {
		half := opts.OrthoScale / 2
		return &gltf.Camera{
			Name: name,
			Orthographic: &gltf.Orthographic{
				Xmag:  half,
				Ymag:  half / opts.AspectRatio,
				Znear: opts.ZNear,
				Zfar:  zfar,
			},
		}
	}

	aspect := opts.AspectRatio
	return &gltf.Camera{
		Name: name,
		Perspective: &gltf.Perspective{
			AspectRatio: &aspect,
			Yfov:        rig.FieldOfView(focal, opts.SensorWidth/opts.AspectRatio),
			Znear:       opts.ZNear,
			Zfar:        &zfar,
		},
	}
}

func toYUp(p rig.Pose) (mgl64.Vec3, mgl64.Quat) {
	pos := mgl64.Vec3{p.Position.X(), p.Position.Z(), -p.Position.Y()}
	return pos, zUpToYUp.Mul(p.Rotation).Normalize()
}

func vec3f64(v mgl64.Vec3) [3]float64 { return [3]float64{v[0], v[1], v[2]} }

func quatf64(q mgl64.Quat) [4]float64 { return [4]float64{q.V[0], q.V[1], q.V[2], q.W} }
