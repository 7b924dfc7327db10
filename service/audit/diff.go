package audit

import (
	"github.com/pmezard/go-difflib/difflib"
)

// TamperDiff renders a unified diff between the sealed and current encoding
// of a record.
func TamperDiff(recordID string, sealed, current []byte) string {
	if string(sealed) == string(current) {
		return ""
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(sealed)),
		B:        difflib.SplitLines(string(current)),
		FromFile: recordID + " (sealed)",
		ToFile:   recordID + " (current)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}
	return text
}
