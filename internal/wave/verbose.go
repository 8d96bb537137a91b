package wave

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Verbose gates per-instruction trace lines to stderr during code
// generation. Defaults from WAVEC_VERBOSE; the CLI's -v/--verbose flag may
// additionally set it, mirroring xyproto/flapc's VerboseMode toggle.
var Verbose = env.Bool("WAVEC_VERBOSE", false)

// Trace prints one trace line when Verbose is set.
func Trace(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "wavec: "+format+"\n", args...)
}
