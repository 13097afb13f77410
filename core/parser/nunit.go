package parser

import (
	"io"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

// nunitSuite covers both NUnit 3 (<test-run>) and NUnit 2 (<test-results>),
// where children are nested in a <results> element.
type nunitSuite struct {
	Name    string          `xml:"name,attr"`
	Suites  []nunitSuite    `xml:"test-suite"`
	Cases   []nunitTestCase `xml:"test-case"`
	Results *nunitSuite     `xml:"results"`
}

type nunitTestCase struct {
	Name      string `xml:"name,attr"`
	FullName  string `xml:"fullname,attr"`
	ClassName string `xml:"classname,attr"`
	Result    string `xml:"result,attr"`
	Executed  string `xml:"executed,attr"`
	Failure   string `xml:"failure>message"`
	Reason    string `xml:"reason>message"`
}

// ParseNUnit decodes an NUnit 2 or NUnit 3 XML result file.
func ParseNUnit(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var doc nunitSuite
	if _, err := decodeDocument(r, rec, &doc, "test-run", "test-results"); err != nil {
		return nil, err
	}

	root := coverage.NewModuleNode(defaultModuleName)
	if err := addNUnitSuite(root, doc, rec); err != nil {
		return nil, err
	}
	return root, nil
}

func addNUnitSuite(root *coverage.Node, suite nunitSuite, rec *recorder) error {
	for _, tc := range suite.Cases {
		if err := addNUnitCase(root, tc, rec); err != nil {
			return err
		}
	}
	for _, nested := range suite.Suites {
		if err := addNUnitSuite(root, nested, rec); err != nil {
			return err
		}
	}
	if suite.Results != nil {
		return addNUnitSuite(root, *suite.Results, rec)
	}
	return nil
}

func addNUnitCase(root *coverage.Node, tc nunitTestCase, rec *recorder) error {
	className, name := tc.ClassName, tc.Name
	if className == "" {
		// NUnit 2 only has the qualified test name
		qualified := tc.FullName
		if qualified == "" {
			qualified = tc.Name
		}
		className = namespace(qualified, "")
		name = strings.TrimPrefix(qualified, className+".")
	}
	if className == "" || name == "" {
		return rec.defect(0, tc.Name, "test case without class")
	}

	result, ok := nunitResult(tc)
	if !ok {
		return rec.defect(0, tc.Name, "unknown result '%s'", tc.Result)
	}
	message := strings.TrimSpace(tc.Failure)
	if result == coverage.TestSkipped {
		message = strings.TrimSpace(tc.Reason)
	}
	return addTestResult(root, coverage.TestCase{ClassName: className, Name: name, Result: result, Message: message})
}

func nunitResult(tc nunitTestCase) (coverage.TestResult, bool) {
	if executed, ok := parseBool(tc.Executed); ok && !executed {
		return coverage.TestSkipped, true
	}
	switch strings.ToLower(tc.Result) {
	case "passed", "success":
		return coverage.TestPassed, true
	case "failed", "failure", "error":
		return coverage.TestFailed, true
	case "skipped", "ignored", "inconclusive", "notrunnable", "notrun":
		return coverage.TestSkipped, true
	default:
		return "", false
	}
}
