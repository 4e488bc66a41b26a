package assembler

import (
	"github.com/BurntSushi/toml"
)

const (
	DefaultMaxPasses         = 16
	DefaultMaxLoopIterations = 0x10000
	DefaultMaxRecursion      = 256
)

// Options control an assembly. They can be loaded from a TOML file.
type Options struct {
	MaxPasses         int              `toml:"max_passes"`          // Pass budget of the whole assembly.
	CaseSensitive     bool             `toml:"case_sensitive"`      // Symbols keep their case.
	Sandbox           bool             `toml:"sandbox"`             // INCLUDE and INCBIN are refused.
	ParallelBuild     bool             `toml:"parallel_build"`      // Build sibling tokens concurrently.
	IncludePaths      []string         `toml:"include_paths"`       // Extra directories searched for files.
	MaxLoopIterations int              `toml:"max_loop_iterations"` // Bound of WHILE and REPEAT ... UNTIL.
	MaxRecursion      int              `toml:"max_recursion"`       // Depth bound of function calls.
	Verbose           bool             `toml:"verbose"`             // If set, logs the passes.
	Defines           map[string]int64 `toml:"defines"`             // Symbols defined before the first pass.
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MaxPasses:         DefaultMaxPasses,
		MaxLoopIterations: DefaultMaxLoopIterations,
		MaxRecursion:      DefaultMaxRecursion,
	}
}

// LoadOptions reads options from a TOML file. Keys absent from the file keep
// their default value.
func LoadOptions(path string) (opts Options, err error) {
	opts = DefaultOptions()
	_, err = toml.DecodeFile(path, &opts)
	return
}

// DecodeOptions reads options from TOML text.
func DecodeOptions(text string) (opts Options, err error) {
	opts = DefaultOptions()
	_, err = toml.Decode(text, &opts)
	return
}

// normalized replaces unset limits by their default. Two passes are the
// least an assembly needs.
func (opts Options) normalized() Options {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	opts.MaxPasses = max(opts.MaxPasses, 2)
	if opts.MaxLoopIterations <= 0 {
		opts.MaxLoopIterations = DefaultMaxLoopIterations
	}
	if opts.MaxRecursion <= 0 {
		opts.MaxRecursion = DefaultMaxRecursion
	}
	return opts
}
