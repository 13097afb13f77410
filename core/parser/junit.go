package parser

import (
	"io"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type junitSuite struct {
	Name   string          `xml:"name,attr"`
	Suites []junitSuite    `xml:"testsuite"`
	Cases  []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *junitMessage `xml:"failure"`
	Error     *junitMessage `xml:"error"`
	Skipped   *junitMessage `xml:"skipped"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

func (m *junitMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(m.Text)
}

// ParseJUnit decodes a JUnit XML report rooted at <testsuites> or at a single
// <testsuite>. Test cases are grouped by class name.
func ParseJUnit(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var doc junitSuite
	if _, err := decodeDocument(r, rec, &doc, "testsuites", "testsuite"); err != nil {
		return nil, err
	}

	root := coverage.NewModuleNode(defaultModuleName)
	if err := addJUnitSuite(root, doc, rec); err != nil {
		return nil, err
	}
	return root, nil
}

func addJUnitSuite(root *coverage.Node, suite junitSuite, rec *recorder) error {
	for _, tc := range suite.Cases {
		className := tc.ClassName
		if className == "" {
			className = suite.Name
		}
		if tc.Name == "" || className == "" {
			if err := rec.defect(0, className+"#"+tc.Name, "test case without name or class"); err != nil {
				return err
			}
			continue
		}
		result := coverage.TestCase{ClassName: className, Name: tc.Name, Result: coverage.TestPassed}
		switch {
		case tc.Failure != nil:
			result.Result, result.Message = coverage.TestFailed, tc.Failure.text()
		case tc.Error != nil:
			result.Result, result.Message = coverage.TestFailed, tc.Error.text()
		case tc.Skipped != nil:
			result.Result, result.Message = coverage.TestSkipped, tc.Skipped.text()
		}
		if err := addTestResult(root, result); err != nil {
			return err
		}
	}
	for _, nested := range suite.Suites {
		if err := addJUnitSuite(root, nested, rec); err != nil {
			return err
		}
	}
	return nil
}

// addTestResult files tc below root as package (namespace of the class),
// class, test case.
func addTestResult(root *coverage.Node, tc coverage.TestCase) error {
	pkg, err := root.FindOrCreatePackage(namespace(tc.ClassName, defaultModuleName))
	if err != nil {
		return err
	}
	class, err := pkg.FindOrCreateClass(tc.ClassName)
	if err != nil {
		return err
	}
	return class.AddTestCase(tc)
}
