package oci

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	digest "github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/slok/bopbridge/internal/model"
)

const blobsDir = "blobs"

// WASMLayerMediaTypes are the layer media types that carry a WASM module.
var WASMLayerMediaTypes = []string{
	"application/vnd.wasm.content.layer.v1+wasm",
	"application/wasm",
}

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// WASMLayoutRepository loads compiler images stored as WASM artifacts in an
// OCI image layout directory.
type WASMLayoutRepository struct {
	fs fs.FS
}

// NewWASMLayoutRepository creates a new repository over an OCI image layout root.
func NewWASMLayoutRepository(layout fs.FS) *WASMLayoutRepository {
	return &WASMLayoutRepository{fs: layout}
}

// GetWASMImage returns the WASM module of the manifest selected by ref. The ref
// can be a `org.opencontainers.image.ref.name` annotation or a manifest digest,
// empty is only valid when the index has a single manifest.
func (r *WASMLayoutRepository) GetWASMImage(ctx context.Context, ref string) ([]byte, error) {
	if err := r.checkLayout(); err != nil {
		return nil, err
	}

	var index ocispec.Index
	if err := r.readJSON(ocispec.ImageIndexFile, &index); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	desc, err := selectManifest(index, ref)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	data, err := r.readBlob(desc)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w: %w", desc.Digest, err, model.ErrNotValid)
	}

	layer, ok := wasmLayer(manifest)
	if !ok {
		return nil, fmt.Errorf("manifest %s has no wasm layer: %w", desc.Digest, model.ErrNotFound)
	}

	wasm, err := r.readBlob(layer)
	if err != nil {
		return nil, fmt.Errorf("reading wasm layer: %w", err)
	}

	if !bytes.HasPrefix(wasm, wasmMagic) {
		return nil, fmt.Errorf("layer %s is not a wasm module: %w", layer.Digest, model.ErrNotValid)
	}

	return wasm, nil
}

func (r *WASMLayoutRepository) checkLayout() error {
	var layout ocispec.ImageLayout
	if err := r.readJSON(ocispec.ImageLayoutFile, &layout); err != nil {
		return fmt.Errorf("reading layout marker: %w", err)
	}

	if layout.Version != ocispec.ImageLayoutVersion {
		return fmt.Errorf("unsupported image layout version %q: %w", layout.Version, model.ErrNotValid)
	}

	return nil
}

func (r *WASMLayoutRepository) readJSON(name string, v any) error {
	data, err := fs.ReadFile(r.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, model.ErrNotFound)
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w: %w", name, err, model.ErrNotValid)
	}

	return nil
}

// readBlob reads a content addressable blob and verifies it against its descriptor.
func (r *WASMLayoutRepository) readBlob(desc ocispec.Descriptor) ([]byte, error) {
	if err := desc.Digest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w: %w", desc.Digest, err, model.ErrNotValid)
	}

	p := path.Join(blobsDir, desc.Digest.Algorithm().String(), desc.Digest.Encoded())
	data, err := fs.ReadFile(r.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", desc.Digest, model.ErrNotFound)
		}
		return nil, err
	}

	if desc.Size > 0 && int64(len(data)) != desc.Size {
		return nil, fmt.Errorf("blob %s size is %d, expected %d: %w", desc.Digest, len(data), desc.Size, model.ErrNotValid)
	}

	verifier := desc.Digest.Verifier()
	_, _ = verifier.Write(data)
	if !verifier.Verified() {
		return nil, fmt.Errorf("blob %s content doesn't match its digest: %w", desc.Digest, model.ErrNotValid)
	}

	return data, nil
}

func selectManifest(index ocispec.Index, ref string) (ocispec.Descriptor, error) {
	var candidates []ocispec.Descriptor
	for _, m := range index.Manifests {
		if m.MediaType != ocispec.MediaTypeImageManifest {
			continue
		}
		if ref == "" || m.Annotations[ocispec.AnnotationRefName] == ref || m.Digest == digest.Digest(ref) {
			candidates = append(candidates, m)
		}
	}

	switch {
	case len(candidates) == 0 && ref == "":
		return ocispec.Descriptor{}, fmt.Errorf("index has no image manifests: %w", model.ErrNotFound)
	case len(candidates) == 0:
		return ocispec.Descriptor{}, fmt.Errorf("manifest %q: %w", ref, model.ErrNotFound)
	case len(candidates) > 1 && ref == "":
		return ocispec.Descriptor{}, fmt.Errorf("index has %d manifests, a reference is required: %w", len(candidates), model.ErrNotValid)
	}

	return candidates[0], nil
}

func wasmLayer(m ocispec.Manifest) (ocispec.Descriptor, bool) {
	for _, l := range m.Layers {
		for _, mt := range WASMLayerMediaTypes {
			if l.MediaType == mt {
				return l, true
			}
		}
	}
	return ocispec.Descriptor{}, false
}
