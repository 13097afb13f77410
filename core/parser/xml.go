package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// decodeDocument decodes the root element of an XML report into v. The root
// must be one of roots. Any syntax error, an empty input and an unexpected
// root are fatal. It returns the name of the root element.
func decodeDocument(r io.Reader, rec *recorder, v any, roots ...string) (string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", rec.fatal(0, "empty document")
		}
		if err != nil {
			return "", rec.fatal(syntaxLine(err), "%v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !slices.Contains(roots, start.Name.Local) {
			return "", rec.fatal(0, "unexpected root element <%s>, want <%s>", start.Name.Local, strings.Join(roots, "> or <"))
		}
		if err := dec.DecodeElement(v, &start); err != nil {
			return "", rec.fatal(syntaxLine(err), "%v", err)
		}
		return start.Name.Local, nil
	}
}

func syntaxLine(err error) int {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Line
	}
	return 0
}

// parseCount parses a non-negative integer attribute. An empty attribute
// counts as zero.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseLineNumber parses a strictly positive line attribute.
func parseLineNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// conditionCoverage matches fractions such as "50% (1/2)".
var conditionCoverage = regexp.MustCompile(`^\s*[0-9.]+%\s*\(\s*([0-9]+)\s*/\s*([0-9]+)\s*\)\s*$`)

// parseFraction extracts covered and missed from a "50% (1/2)" attribute.
func parseFraction(s string) (covered, missed int, ok bool) {
	m := conditionCoverage.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	covered, _ = strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	if covered > total {
		return 0, 0, false
	}
	return covered, total - covered, true
}

// parseBool accepts the spellings used by the supported report formats.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}
