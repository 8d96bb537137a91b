package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joulyman/wavec/internal/wave"
)

// cmdTokens implements the `wavec tokens <file>` debug subcommand: dumps
// the keyword/identifier/number/string token stream without compiling.
func cmdTokens(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: wavec tokens <file>")
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
	}

	file := filepath.Clean(fs.Arg(0))
	src := readSource(file)

	for _, tok := range wave.DumpTokens(src) {
		fmt.Println(tok)
	}
}
