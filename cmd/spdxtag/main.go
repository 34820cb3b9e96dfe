// spdxtag generates SPDX tag-value documents.
package main

import (
	"os"

	"github.com/hupe1980/spdxtag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
