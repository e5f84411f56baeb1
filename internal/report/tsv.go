package report

import (
	"fmt"
	"strings"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
)

// GenerateTSV renders diagnostics as a tab-separated table for spreadsheet
// and scripting consumers.
func GenerateTSV(diags []analysis.Diagnostic) (string, error) {
	var buf strings.Builder

	buf.WriteString("Kind\tFile\tLine\tColumn\tMessage\n")
	for _, d := range diags {
		loc := d.Location()
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%s\n",
			d.Kind, loc.File, loc.Line, loc.Column, d.Message))
	}

	return buf.String(), nil
}
