// Package renderer draws the floor plan and the skinned character with
// OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/engine/shader"
	"github.com/Faultbox/prisonstep/internal/logger"
	"github.com/Faultbox/prisonstep/internal/region"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

const boneBoxHalf = 2.5

const vertexSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in float aSlot;

uniform mat4 uSkin[57];
uniform mat4 uWorld;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vColor;

void main() {
	vec4 p = uSkin[int(aSlot)] * vec4(aPos, 1.0);
	gl_Position = uProj * uView * uWorld * p;
	vColor = aColor;
}
`

const fragmentSource = `
#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`

// mesh is an uploaded vertex buffer.
type mesh struct {
	vao, vbo uint32
	count    int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program

	floor  mesh
	bones  mesh
	marker mesh

	identity [anim.MaxSkinMatrices]math.Mat4
	log      *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}
	for i := range r.identity {
		r.identity[i] = math.Identity()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.New(vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	// Weapon socket marker, placed per frame by the socket transform.
	r.marker = upload(AppendBox(nil, math.Identity(), 3, [3]float32{0.9, 0.2, 0.2}, 0))

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.floor.delete()
	r.bones.delete()
	r.marker.delete()
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetRegions uploads the floor plan.
func (r *Renderer) SetRegions(m *region.Map) {
	r.floor.delete()
	r.floor = upload(RegionTriangles(m, 0))
	r.log.Debug("floor uploaded", zap.Int32("vertices", r.floor.count))
}

// SetRig uploads the character's bone boxes.
func (r *Renderer) SetRig(rig *anim.Rig) {
	r.bones.delete()
	r.bones = upload(BoneBoxes(rig.Skeleton, rig.Skin, boneBoxHalf))
	r.log.Debug("rig uploaded", zap.Int32("vertices", r.bones.count))
}

// Begin starts a new frame with the given camera matrices.
func (r *Renderer) Begin(view, proj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
	r.program.SetMat4("uView", view)
	r.program.SetMat4("uProj", proj)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// DrawFloor draws the floor plan.
func (r *Renderer) DrawFloor() {
	r.draw(r.floor, math.Identity(), r.identity[:])
}

// DrawCharacter draws the bone boxes at world with the skinning palette.
func (r *Renderer) DrawCharacter(world math.Mat4, skins []math.Mat4) {
	r.draw(r.bones, world, skins)
}

// DrawMarker draws the socket marker at transform.
func (r *Renderer) DrawMarker(transform math.Mat4) {
	r.draw(r.marker, transform, r.identity[:1])
}

func (r *Renderer) draw(m mesh, world math.Mat4, skins []math.Mat4) {
	if m.count == 0 {
		return
	}
	r.program.SetMat4("uWorld", world)
	r.program.SetMat4Array("uSkin", skins)
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func upload(vertices []Vertex) mesh {
	var m mesh
	if len(vertices) == 0 {
		return m
	}
	m.count = int32(len(vertices))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexStride, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, vertexStride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

func (m *mesh) delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	*m = mesh{}
}

// ReadPixels reads back the current frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
