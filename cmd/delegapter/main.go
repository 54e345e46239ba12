// Command delegapter diffs and replays list scenarios described in YAML and
// prints the notifications a rendering consumer would receive.
package main

import (
	"os"

	"github.com/go-drift/delegapter/cmd/delegapter/cmd"
	"github.com/go-drift/delegapter/pkg/errors"
)

func main() {
	defer errors.RecoverWithCallback("delegapter", func(any) { os.Exit(2) })

	if err := cmd.Execute(); err != nil {
		errors.Report(err)
		os.Exit(1)
	}
}
