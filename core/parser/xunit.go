package parser

import (
	"io"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type xunitAssemblies struct {
	Assemblies  []xunitAssembly   `xml:"assembly"`
	Collections []xunitCollection `xml:"collection"`
}

type xunitAssembly struct {
	Collections []xunitCollection `xml:"collection"`
}

type xunitCollection struct {
	Tests []xunitTest `xml:"test"`
}

type xunitTest struct {
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
	Method  string `xml:"method,attr"`
	Result  string `xml:"result,attr"`
	Failure string `xml:"failure>message"`
	Reason  string `xml:"reason"`
}

// ParseXUnit decodes an xUnit.net v2 XML result file rooted at <assemblies>
// or at a single <assembly>.
func ParseXUnit(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var doc xunitAssemblies
	rootName, err := decodeDocument(r, rec, &doc, "assemblies", "assembly")
	if err != nil {
		return nil, err
	}

	collections := doc.Collections
	if rootName == "assemblies" {
		collections = nil
		for _, a := range doc.Assemblies {
			collections = append(collections, a.Collections...)
		}
	}

	root := coverage.NewModuleNode(defaultModuleName)
	for _, c := range collections {
		for _, t := range c.Tests {
			if err := addXUnitTest(root, t, rec); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func addXUnitTest(root *coverage.Node, t xunitTest, rec *recorder) error {
	className := t.Type
	name := t.Method
	if name == "" {
		name = strings.TrimPrefix(t.Name, className+".")
	}
	if className == "" || name == "" {
		return rec.defect(0, t.Name, "test without type or method")
	}

	var result coverage.TestResult
	message := strings.TrimSpace(t.Failure)
	switch strings.ToLower(t.Result) {
	case "pass":
		result = coverage.TestPassed
	case "fail":
		result = coverage.TestFailed
	case "skip", "notrun":
		result = coverage.TestSkipped
		message = strings.TrimSpace(t.Reason)
	default:
		return rec.defect(0, t.Name, "unknown result '%s'", t.Result)
	}
	return addTestResult(root, coverage.TestCase{ClassName: className, Name: name, Result: result, Message: message})
}
