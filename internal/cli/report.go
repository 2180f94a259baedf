package cli

import (
	"io"

	"github.com/fatih/color"

	"github.com/syssam/graphgen/compiler"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// report prints the summary of a generation run.
func report(w io.Writer, res *compiler.Result) {
	successColor.Fprintf(w, "Generated %d resources", len(res.Resources))
	if n := len(res.Repositories); n > 0 {
		successColor.Fprintf(w, " and %d repositories", n)
	}
	successColor.Fprintf(w, " (%d bytes)\n", res.Metrics.TotalBytes)
	if res.Copied {
		infoColor.Fprintln(w, "Resources copied")
	}
	if len(res.Errors) == 0 {
		return
	}
	headerColor.Fprintf(w, "%d model errors, affected classes were left out:\n", len(res.Errors))
	for _, err := range res.Errors {
		warnColor.Fprintf(w, "  - %v\n", err)
	}
}
