package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wavec <input> -o <output>")
	os.Exit(1)
}

func readSource(file string) []byte {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return src
}

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "tokens":
			cmdTokens(os.Args[2:])
			return
		case "funcs":
			cmdFuncs(os.Args[2:])
			return
		case "build":
			cmdBuild(os.Args[2:])
			return
		}
	}
	cmdBuild(os.Args[1:])
}
