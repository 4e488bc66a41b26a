// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/cpcasm/assembler"
	"github.com/ezrec/cpcasm/files"
	"github.com/ezrec/cpcasm/symbols"
	"github.com/spf13/cobra"
)

var (
	output        string
	config        string
	includes      []string
	caseSensitive bool
	maxPasses     int
	sandbox       bool
	parallel      bool
	listing       string
	symbolFile    string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "basm [flags] source.asm",
	Short: "Z80 cross assembler for the Amstrad CPC",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Binary output (default: source with .bin extension)")
	flags.StringVar(&config, "config", "", "TOML options file")
	flags.StringSliceVarP(&includes, "include", "I", nil, "Directory searched for included files")
	flags.BoolVar(&caseSensitive, "case-sensitive", false, "Symbols keep their case")
	flags.IntVar(&maxPasses, "max-passes", assembler.DefaultMaxPasses, "Pass budget")
	flags.BoolVar(&sandbox, "sandbox", false, "Refuse INCLUDE and INCBIN")
	flags.BoolVar(&parallel, "parallel", false, "Build the listing concurrently")
	flags.StringVar(&listing, "lst", "", "Listing output")
	flags.StringVar(&symbolFile, "sym", "", "Symbol table output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
}

// relative converts a host path to a path of the working directory file
// system.
func relative(cwd string, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		log.Fatalf("%v: outside of the working directory", path)
	}
	return filepath.ToSlash(rel)
}

func options(cmd *cobra.Command, cwd string) (opts assembler.Options) {
	opts = assembler.DefaultOptions()
	if len(config) != 0 {
		var err error
		opts, err = assembler.LoadOptions(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("case-sensitive") {
		opts.CaseSensitive = caseSensitive
	}
	if flags.Changed("max-passes") {
		opts.MaxPasses = maxPasses
	}
	if flags.Changed("sandbox") {
		opts.Sandbox = sandbox
	}
	if flags.Changed("parallel") {
		opts.ParallelBuild = parallel
	}
	if verbose {
		opts.Verbose = true
	}
	for _, dir := range includes {
		opts.IncludePaths = append(opts.IncludePaths, relative(cwd, dir))
	}
	return
}

func create(fsys files.CreateFS, cwd string, path string, write func(w io.Writer) error) {
	ouf, err := fsys.Create(relative(cwd, path))
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	err = write(ouf)
	if closeErr := ouf.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}

func run(cmd *cobra.Command, args []string) {
	source := args[0]

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	fsys := files.DirFS(cwd)
	env := assembler.NewEnv(options(cmd, cwd), fsys)
	lb := &assembler.ListingBuffer{}
	if len(listing) != 0 {
		env.Recorder = lb
	}

	err = env.AssembleFile(relative(cwd, source))
	for _, d := range env.Diagnostics() {
		log.Print(d)
	}
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	if verbose {
		stats := env.Stats()
		log.Printf("%v: %d pass(es), %d byte(s) at &%04X", source, stats.Passes, len(env.Output()), env.Origin())
	}

	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
	}
	create(fsys, cwd, output, func(w io.Writer) (err error) {
		_, err = w.Write(env.Output())
		return
	})

	if len(listing) != 0 {
		create(fsys, cwd, listing, func(w io.Writer) (err error) {
			_, err = lb.WriteTo(w)
			return
		})
	}

	if len(symbolFile) != 0 {
		create(fsys, cwd, symbolFile, func(w io.Writer) (err error) {
			for name, vs := range env.Symbols() {
				r, ok := symbols.ToResult(vs.Value)
				if !ok {
					continue
				}
				if _, err = fmt.Fprintf(w, "%s = %v ; %v\n", name, r, vs.Source); err != nil {
					return
				}
			}
			return
		})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
