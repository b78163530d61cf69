package model

// GeneratorConfig is a requested code generator and where its output must be written.
type GeneratorConfig struct {
	// Alias is the generator identity (e.g. `ts`, `cs`), it must exist in Generators.
	Alias string `yaml:"alias" json:"alias"`
	// OutFile is the path of the primary generated file.
	OutFile string `yaml:"out_file" json:"outFile"`
	// Services selects which service code is generated (e.g. `both`, `client`, `server`, `none`).
	Services string `yaml:"services,omitempty" json:"services,omitempty"`
	// Options are extra generator specific key/values.
	Options          map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
	EmitNotice       bool              `yaml:"emit_notice,omitempty" json:"emitNotice,omitempty"`
	EmitBinarySchema bool              `yaml:"emit_binary_schema,omitempty" json:"emitBinarySchema,omitempty"`
	Namespace        string            `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

// GeneratorSpec describes the files a generator produces.
type GeneratorSpec struct {
	// Extension is the extension of the primary output file.
	Extension string
	// AuxiliaryExtension is the extension of a secondary file produced next to the
	// primary one (e.g. a header), empty when the generator produces a single file.
	AuxiliaryExtension string
}

// Generators is the alias table of the known generators.
var Generators = map[string]GeneratorSpec{
	"cs":   {Extension: ".cs"},
	"ts":   {Extension: ".ts"},
	"rust": {Extension: ".rs"},
	"py":   {Extension: ".py"},
	"dart": {Extension: ".dart"},
	"cpp":  {Extension: ".hpp"},
	"c":    {Extension: ".c", AuxiliaryExtension: ".h"},
	"js":   {Extension: ".js", AuxiliaryExtension: ".d.ts"},
}
