// Command linter runs the errleak analyzer over the given packages.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/velox/url-shortener/cmd/linter/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
