package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joulyman/wavec/internal/wave"
)

// cmdFuncs implements the `wavec funcs <file>` debug subcommand: runs only
// the pre-scan pass and prints each declared function's name and
// parameter list.
func cmdFuncs(args []string) {
	fs := flag.NewFlagSet("funcs", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: wavec funcs <file>")
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
	}

	file := filepath.Clean(fs.Arg(0))
	src := readSource(file)

	c, err := wave.NewCompiler(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: compilation failed")
		os.Exit(1)
	}
	if err := c.PreScan(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: compilation failed")
		os.Exit(1)
	}

	for _, f := range c.Funcs().List() {
		fmt.Printf("%s(%s)\n", f.Name, strings.Join(f.ParamNames, ", "))
	}
}
