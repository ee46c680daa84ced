package cmd

import (
	"fmt"
	"io"
	"os"
)

// readSource resolves the function-text input for a subcommand: an inline
// expression (-e), a file argument, or stdin, in that priority order —
// mirroring cmd/dwscript/cmd/parse.go's input resolution.
func readSource(inline string, args []string) (source, label string, err error) {
	switch {
	case inline != "":
		return inline, "<eval>", nil
	case len(args) > 0:
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], rerr)
		}
		return string(data), args[0], nil
	default:
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", rerr)
		}
		return string(data), "<stdin>", nil
	}
}
