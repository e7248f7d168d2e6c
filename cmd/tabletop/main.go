// Command tabletop records, replays and inspects deterministic game sessions.
package main

import (
	"os"

	"github.com/roach88/tabletop/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
