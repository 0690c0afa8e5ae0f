// Command lexicon manages a term and explanation dictionary.
package main

import (
	"os"

	"github.com/mesh-intelligence/lexicon/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
