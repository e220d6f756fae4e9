// Package importer turns model files into scene subtrees.
//
// The format is chosen from the file extension through one lookup table. Text formats
// (OBJ) parse on the caller's goroutine and complete before Import returns. Binary formats
// (glTF/GLB, FBX) parse on a worker goroutine; their results queue up until Poll runs the
// callbacks on the main loop, so the scene graph is only ever touched from one goroutine.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"scene-editor/internal/logger"
	"scene-editor/internal/registry"
	"scene-editor/internal/scene"
)

// Format is a supported model file format.
type Format int

const (
	FormatGLTF Format = iota
	FormatOBJ
	FormatFBX
)

func (f Format) String() string {
	switch f {
	case FormatGLTF:
		return "glTF"
	case FormatOBJ:
		return "OBJ"
	case FormatFBX:
		return "FBX"
	}
	return "unknown"
}

// extensions maps lowercase file extensions to formats.
var extensions = map[string]Format{
	".gltf": FormatGLTF,
	".glb":  FormatGLTF,
	".obj":  FormatOBJ,
	".fbx":  FormatFBX,
}

// strategy parses one format into a subtree named after the file.
type strategy interface {
	parse(name string, data []byte) (*scene.Node, error)
	async() bool
}

type binaryStrategy func(name string, data []byte) (*scene.Node, error)

func (s binaryStrategy) parse(name string, data []byte) (*scene.Node, error) { return s(name, data) }
func (binaryStrategy) async() bool                                           { return true }

type textStrategy func(name, text string) (*scene.Node, error)

func (s textStrategy) parse(name string, data []byte) (*scene.Node, error) {
	return s(name, string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
}
func (textStrategy) async() bool { return false }

var strategies = map[Format]strategy{
	FormatGLTF: binaryStrategy(parseGLTF),
	FormatOBJ:  textStrategy(parseOBJ),
	FormatFBX:  binaryStrategy(parseFBX),
}

// ErrUnsupportedFormat matches every UnsupportedFormatError via errors.Is.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError is returned when no strategy handles the file extension.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("importer: %s: unsupported format (no extension)", e.Filename)
	}
	return fmt.Sprintf("importer: %s: unsupported format %q", e.Filename, e.Ext)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError wraps a failure inside a format parser.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("importer: parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Detect returns the format for filename's extension, compared case-insensitively.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := extensions[ext]
	if !ok {
		return 0, &UnsupportedFormatError{Filename: filename, Ext: ext}
	}
	return f, nil
}

// Extensions returns the supported extensions, for file dialog filters.
func Extensions() []string {
	return []string{"gltf", "glb", "obj", "fbx"}
}

// Result is the outcome of one import. On success Root holds the new subtree (not yet
// attached to any scene) and Meshes lists its mesh nodes in pre-order.
type Result struct {
	Filename string
	Format   Format
	Root     *scene.Node
	Meshes   []registry.Descriptor
	Err      error
}

// Callback receives a finished import on the main goroutine.
type Callback func(Result)

type completion struct {
	res  Result
	done Callback
}

// Importer dispatches files to format parsers and queues asynchronous results.
type Importer struct {
	log      *logger.Logger
	pending  chan completion
	inflight atomic.Int32
}

// New returns an Importer that reports outcomes to log.
func New(log *logger.Logger) *Importer {
	return &Importer{
		log:     log,
		pending: make(chan completion, 16),
	}
}

// Import parses data as the format implied by filename. Unsupported extensions return an
// error immediately and done is never called. For OBJ, done runs before Import returns;
// for binary formats it runs from a later Poll.
func (im *Importer) Import(filename string, data []byte, done Callback) error {
	f, err := Detect(filename)
	if err != nil {
		im.log.Warn("import %s: %v", filename, err)
		return err
	}
	s := strategies[f]
	if !s.async() {
		im.deliver(run(f, s, filename, data), done)
		return nil
	}
	im.inflight.Add(1)
	go func() {
		im.pending <- completion{res: run(f, s, filename, data), done: done}
	}()
	return nil
}

// ImportFile reads path from disk and imports it.
func (im *Importer) ImportFile(path string, done Callback) error {
	if _, err := Detect(path); err != nil {
		im.log.Warn("import %s: %v", path, err)
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		im.log.Error("import %s: %v", path, err)
		return fmt.Errorf("importer: read %s: %w", path, err)
	}
	return im.Import(path, data, done)
}

// Poll delivers every finished background import and returns how many were delivered.
// Call it once per frame from the main loop.
func (im *Importer) Poll() int {
	n := 0
	for {
		select {
		case c := <-im.pending:
			im.inflight.Add(-1)
			im.deliver(c.res, c.done)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until at least one background import finishes, then delivers it and any
// others already queued. It returns ctx.Err() if ctx ends first.
func (im *Importer) Wait(ctx context.Context) error {
	select {
	case c := <-im.pending:
		im.inflight.Add(-1)
		im.deliver(c.res, c.done)
		im.Poll()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of background imports not yet delivered.
func (im *Importer) Pending() int {
	return int(im.inflight.Load())
}

func (im *Importer) deliver(res Result, done Callback) {
	if res.Err != nil {
		im.log.Error("import %s: %v", res.Filename, res.Err)
	} else {
		im.log.Info("imported %s (%s): %d meshes", filepath.Base(res.Filename), res.Format, len(res.Meshes))
	}
	if done != nil {
		done(res)
	}
}

// run parses data and never panics; third-party decoders can panic on malformed input.
func run(f Format, s strategy, filename string, data []byte) (res Result) {
	res = Result{Filename: filename, Format: f}
	defer func() {
		if r := recover(); r != nil {
			res.Root, res.Meshes = nil, nil
			res.Err = &ParseError{Format: f, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()
	root, err := s.parse(filepath.Base(filename), data)
	if err != nil {
		res.Err = &ParseError{Format: f, Err: err}
		return res
	}
	res.Root = root
	res.Meshes = registry.Collect(root)
	return res
}

// importColor tints imported meshes, which carry no material information here.
var importColor = [4]uint8{190, 190, 200, 255}

func importedMesh(name string, bounds scene.AABB) *scene.Node {
	if !bounds.Valid() {
		bounds = scene.UnitBounds
	}
	return scene.NewMesh(name, &scene.Mesh{Shape: scene.ShapeBox, Bounds: bounds, Color: importColor})
}
