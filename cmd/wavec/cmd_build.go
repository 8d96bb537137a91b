package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joulyman/wavec/internal/driver"
	"github.com/joulyman/wavec/internal/wave"
)

// cmdBuild implements the fixed CLI contract of spec §6: `wavec <input>
// -o <output>`, argc >= 4, usage line + exit 1 on mismatch. Also reachable
// as `wavec build <input> -o <output>`.
//
// The input file is a fixed positional argument ahead of -o, which the
// standard flag package can't parse (it stops at the first non-flag
// token), so the fixed three-token shape is matched by hand; -v/--verbose
// may appear anywhere after it as an ambient extension.
func cmdBuild(args []string) {
	var input, output string
	verbose := false

	var positional []string
	for _, a := range args {
		switch a {
		case "-v", "--verbose":
			verbose = true
		default:
			positional = append(positional, a)
		}
	}

	if len(positional) != 3 || positional[1] != "-o" {
		usage()
	}
	input, output = positional[0], positional[2]

	if verbose {
		wave.Verbose = true
	}

	file := filepath.Clean(input)
	if err := driver.CompileFile(file, output); err != nil {
		fmt.Fprintln(os.Stderr, "Error: compilation failed")
		wave.Trace("detail: %v", err)
		os.Exit(1)
	}
}
