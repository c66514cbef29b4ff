// cesmd - CESMD V2 strong-motion file converter
//
// cesmd converts corrected accelerograph files in the CESMD V2 text
// format into CSV or JSON, one output file per channel.
package main

import (
	"os"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
