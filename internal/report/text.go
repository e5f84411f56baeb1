package report

import (
	"fmt"
	"io"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

// WriteText prints one diagnostic per line with a file:line:column prefix.
// This is the default CLI output.
func WriteText(w io.Writer, diags []analysis.Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
