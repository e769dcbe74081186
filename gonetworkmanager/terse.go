package gonetworkmanager

import "strings"

// splitTerse splits one line of `nmcli -t` output into at most n fields.
// nmcli escapes ':' and '\' inside values with a backslash; both are
// unescaped here. The last field takes the remainder of the line.
func splitTerse(line string, n int) []string {
	if n <= 0 {
		return nil
	}
	fields := make([]string, 0, n)
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':' && len(fields) < n-1:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(fields, cur.String())
}

// terseLines splits output into non-blank lines.
func terseLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
