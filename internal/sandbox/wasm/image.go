package wasm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// image is the compiled compiler module and the runtime that owns it.
// It is compiled lazily the first time it's needed and reused afterwards,
// a failed compilation is not retried.
type image struct {
	load func() ([]byte, error)

	once     sync.Once
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	digest   digest.Digest
	err      error
}

func newImage(wasm []byte, wasmPath string) *image {
	load := func() ([]byte, error) { return wasm, nil }
	if len(wasm) == 0 {
		load = func() ([]byte, error) {
			b, err := os.ReadFile(wasmPath)
			if err != nil {
				return nil, fmt.Errorf("could not read wasm image %q: %w", wasmPath, err)
			}
			return b, nil
		}
	}

	return &image{load: load}
}

// get returns the compiled module, compiling it if required. Concurrent
// callers wait for the first compilation.
func (i *image) get(ctx context.Context) (wazero.Runtime, wazero.CompiledModule, error) {
	i.once.Do(func() {
		// The image outlives the caller that triggered the compilation.
		i.runtime, i.compiled, i.err = i.compile(context.WithoutCancel(ctx))
	})
	return i.runtime, i.compiled, i.err
}

func (i *image) compile(ctx context.Context) (wazero.Runtime, wazero.CompiledModule, error) {
	wasm, err := i.load()
	if err != nil {
		return nil, nil, err
	}

	i.digest = digest.FromBytes(wasm)

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, nil, fmt.Errorf("could not instantiate wasi: %w", err)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, nil, fmt.Errorf("could not compile wasm image: %w", err)
	}

	return r, compiled, nil
}

func (i *image) close(ctx context.Context) error {
	if i.runtime == nil {
		return nil
	}
	return i.runtime.Close(ctx)
}
