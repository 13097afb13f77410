// Package registry maps report format names to their parsers.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/covtree/core/parser"
)

// ErrUnknownFormat is returned for a format name that is not registered.
var ErrUnknownFormat = errors.New("unknown format")

// Format is the name of a supported report format.
type Format string

// All formats supported.
const (
	Cobertura  Format = "cobertura"
	Go         Format = "go" // default
	JaCoCo     Format = "jacoco"
	JUnit      Format = "junit"
	Metrics    Format = "metrics"
	NUnit      Format = "nunit"
	OpenCover  Format = "opencover"
	Pit        Format = "pit"
	VectorCAST Format = "vectorcast"
	XUnit      Format = "xunit"
)

// Descriptor describes a registered format for listings.
type Descriptor struct {
	Format      Format `json:"format"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

type entry struct {
	parser      parser.Parser
	description string
	kind        string
}

var entries = map[Format]entry{
	Cobertura:  {parser.ParserFunc(parser.ParseCobertura), "Cobertura XML coverage", "coverage"},
	Go:         {parser.ParserFunc(parser.ParseGo), "Go coverprofile (go test -coverprofile)", "coverage"},
	JaCoCo:     {parser.ParserFunc(parser.ParseJaCoCo), "JaCoCo XML coverage", "coverage"},
	JUnit:      {parser.ParserFunc(parser.ParseJUnit), "JUnit XML test results", "tests"},
	Metrics:    {parser.ParserFunc(parser.ParseMetrics), "Software metrics XML", "metrics"},
	NUnit:      {parser.ParserFunc(parser.ParseNUnit), "NUnit 2 and 3 XML test results", "tests"},
	OpenCover:  {parser.ParserFunc(parser.ParseOpenCover), "OpenCover XML coverage", "coverage"},
	Pit:        {parser.ParserFunc(parser.ParsePitest), "Pitest mutation results", "mutation"},
	VectorCAST: {parser.ParserFunc(parser.ParseVectorCAST), "VectorCAST Cobertura export", "coverage"},
	XUnit:      {parser.ParserFunc(parser.ParseXUnit), "xUnit.net v2 XML test results", "tests"},
}

// allFormats is sorted by name.
var allFormats = []Format{Cobertura, Go, JaCoCo, JUnit, Metrics, NUnit, OpenCover, Pit, VectorCAST, XUnit}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := entries[f]; !ok {
		return "", fmt.Errorf("%w '%s'. must be one of %s", ErrUnknownFormat, name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// Lookup returns the parser registered for name.
func Lookup(name string) (parser.Parser, error) {
	f, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return entries[f].parser, nil
}

// Formats returns every supported format, sorted by name.
func Formats() []Format {
	return append([]Format(nil), allFormats...)
}

// FormatNames returns the names of every supported format.
func FormatNames() []string {
	names := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		names = append(names, string(f))
	}
	return names
}

// Describe returns a descriptor for every supported format.
func Describe() []Descriptor {
	out := make([]Descriptor, 0, len(allFormats))
	for _, f := range allFormats {
		e := entries[f]
		out = append(out, Descriptor{Format: f, Description: e.description, Kind: e.kind})
	}
	return out
}
