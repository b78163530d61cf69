// Package lib provides a Go SDK to run the bebop compiler (bebopc) in a sandbox.
//
// The compiler is a WASI module that runs on the wazero runtime, it never sees
// the host filesystem. Every call gets a fresh in-memory filesystem seeded with
// the files you pass, and the files the compiler writes are collected back.
//
// # Quick Start
//
// Create a client and generate code from schemas held in memory:
//
//	client, err := lib.New(ctx, lib.Config{WASMPath: "./bebopc.wasm"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	out, err := client.Build(ctx, map[string]string{
//	    "schemas/user.bop": "struct User { string name; }",
//	}, lib.BuildOpts{
//	    Generators: []lib.GeneratorConfig{{Alias: "ts", OutFile: "out/user.ts"}},
//	})
//	for _, f := range out.Results {
//	    fmt.Println(f.Name, len(f.Content))
//	}
//
// # Compiler Image
//
// The compiler image is resolved in this order:
//
//   - [Config].WASM bytes.
//   - [Config].OCILayoutDir, an OCI image layout holding the image as a WASM artifact.
//   - [Config].WASMPath.
//   - $BOPBRIDGE_WASM_PATH.
//   - ~/.bopbridge/bebopc.wasm.
//
// The image is compiled once, on first use, and shared by all the calls of the client.
//
// # Operations
//
//   - [Client.Build]: generate code, returns the generated files and diagnostics.
//   - [Client.Check]: type check only.
//   - [Client.Init]: initialize a project, returns the created files.
//   - [Client.Version]: compiler version.
//   - [Client.Run]: raw argument vector, uninterpreted result.
//   - [Client.Doctor]: preflight checks of the compiler image.
//
// [Client.LanguageServer] and [Client.Watch] always return [ErrNotSupported].
//
// # Error Handling
//
// A build with structured diagnostics is not an error, the diagnostics are in
// [CompilerOutput].Errors. Other failures can be inspected with [errors.Is]:
//
//   - [ErrNotValid]: invalid input (no files, no generators, unknown generator).
//   - [ErrNotFound]: a requested output was not produced.
//   - [ErrNotSupported]: unsupported compiler mode.
//   - [ErrMalformedOutput]: the compiler output could not be parsed.
//
// And with [errors.As]:
//
//   - [*CompilerError]: exception reported by the compiler.
//   - [*ProcessError]: the compiler failed without a structured error.
//
// # Testing
//
// Use [EngineFake] to write tests without the compiler image. The fake engine
// is an identity compiler: every generator output gets the concatenated schemas.
//
//	client, _ := lib.New(ctx, lib.Config{Engine: lib.EngineFake})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Each call runs
// its own compiler instance, calls don't share any state besides the compiled image.
package lib
