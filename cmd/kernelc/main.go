// Command kernelc is a CLI front door over the kernel-function core,
// giving every component (parser, type oracle, walker, function unit) an
// executable entry point, the way cmd/dwscript does for the teacher's
// pipeline.
package main

import (
	"os"

	"github.com/cwbudde/go-kernelc/cmd/kernelc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
