package scan

import (
	"regexp"
	"strconv"
	"strings"
)

var accuracySuffix = regexp.MustCompile(`\((\d{1,3})%\)`)

// parseGuessList extracts the first guess of an nmap guess list such as
// "Linux 5.0 - 5.4 (95%), Linux 4.15 (93%), ...". The accuracy in parentheses is
// returned when present. Lists without percentages yield their first comma item.
func parseGuessList(s string) OSGuess {
	s = strings.TrimSpace(s)
	if s == "" {
		return OSGuess{}
	}

	if loc := accuracySuffix.FindStringSubmatchIndex(s); loc != nil {
		name := strings.Trim(strings.TrimSpace(s[:loc[0]]), ",")
		acc, err := strconv.Atoi(s[loc[2]:loc[3]])
		if name == "" {
			return OSGuess{}
		}
		if err != nil || acc > 100 {
			return OSGuess{Name: name}
		}
		return OSGuess{Name: name, Accuracy: acc, HasAccuracy: true}
	}

	first, _, _ := strings.Cut(s, ",")
	return OSGuess{Name: strings.TrimSpace(first)}
}

// serviceInfoOS extracts the "OS:" field of an nmap "Service Info:" line,
// e.g. "Host: DC01; OS: Windows; CPE: cpe:/o:microsoft:windows".
func serviceInfoOS(s string) string {
	for _, field := range strings.Split(s, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(field), ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), "OS") {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
