// The minruby binary runs MinRuby scripts.
package main

import (
	"os"

	"src.minruby.dev/pkg/buildinfo"
	"src.minruby.dev/pkg/prog"
	"src.minruby.dev/pkg/script"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, script.Program)))
}
