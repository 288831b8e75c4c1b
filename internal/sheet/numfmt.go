package sheet

import "strings"

// builtinNumFmt maps the standard spreadsheet number format ids to their
// format codes. Styles referencing a custom format carry the code
// themselves; styles referencing a builtin only carry one of these ids.
var builtinNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "m/d/yyyy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yyyy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// isDateFmt reports whether a number format code renders a date or time.
// Date codes are the ones with y/m/d/h/s tokens left over once quoted
// literals and bracket sections are stripped.
func isDateFmt(code string) bool {
	if code == "" || code == "General" {
		return false
	}

	var b strings.Builder
	inQuote := false
	inBracket := false
	skipNext := false
	for _, r := range code {
		switch {
		case skipNext:
			skipNext = false
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == '\\':
			skipNext = true
		default:
			b.WriteRune(r)
		}
	}

	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
