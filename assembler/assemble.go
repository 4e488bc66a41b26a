package assembler

import (
	"io/fs"
	"log"

	"github.com/ezrec/cpcasm/token"
)

// Assemble runs passes over the listing until they converge. The first pass
// only collects symbols, so at least two passes are run.
func (env *Env) Assemble(listing token.Listing, ctx *token.ParseContext) (err error) {
	pts, err := env.build(listing, ctx)
	if err != nil {
		return
	}

	for {
		env.newPass()
		if env.opts.Verbose {
			log.Printf("pass %d", env.pass)
		}

		var out PassOutcome
		out, err = env.visitAll(pts)
		if err != nil {
			return
		}
		if env.opts.Verbose {
			log.Printf("pass %d: %d byte(s), additional pass %v, incomplete %v",
				env.pass, len(env.Output()), out.AdditionalPass, out.Incomplete)
		}

		if env.pass >= 2 && out.Converged() {
			return
		}
		if env.pass >= env.opts.MaxPasses {
			err = &ErrNonConvergent{Passes: env.pass}
			return
		}
	}
}

// AssembleSource parses and assembles source text.
func (env *Env) AssembleSource(source string, filename string) error {
	ctx := &token.ParseContext{
		Filename:      filename,
		CaseSensitive: env.opts.CaseSensitive,
		SearchPaths:   env.opts.IncludePaths,
	}
	listing, err := env.Parser.Parse(source, ctx)
	if err != nil {
		return err
	}
	return env.Assemble(listing, ctx)
}

// AssembleFile loads, parses and assembles a file of the environment file
// system.
func (env *Env) AssembleFile(filename string) error {
	text, err := env.loader.Source(filename)
	if err != nil {
		return err
	}
	return env.AssembleSource(text, filename)
}

// Assemble assembles source text with the given options and file system.
func Assemble(source string, opts Options, fsys fs.FS) (env *Env, err error) {
	env = NewEnv(opts, fsys)
	err = env.AssembleSource(source, "<source>")
	return
}
