package coverage

import "fmt"

// TestResult is the outcome of a single test case.
type TestResult string

// All test results supported.
const (
	TestPassed  TestResult = "passed"
	TestFailed  TestResult = "failed"
	TestSkipped TestResult = "skipped"
)

// TestCase is one executed test attached to the class that declares it.
type TestCase struct {
	ClassName string     `json:"class_name"`
	Name      string     `json:"name"`
	Result    TestResult `json:"result"`
	Message   string     `json:"message,omitempty"`
}

// AddTestCase attaches a test case to a class node.
func (n *Node) AddTestCase(tc TestCase) error {
	if n.metric != Class {
		return fmt.Errorf("%w: test case '%s' attached to %s '%s'", ErrInvalidTreeStructure, tc.Name, n.metric, n.name)
	}
	n.testCases = append(n.testCases, tc)
	n.invalidate()
	return nil
}

// TestCases returns the test cases held by this node.
func (n *Node) TestCases() []TestCase {
	return append([]TestCase(nil), n.testCases...)
}

// AllTestCases returns the test cases of every class below n.
func (n *Node) AllTestCases() []TestCase {
	var all []TestCase
	for c := range n.All(Class) {
		all = append(all, c.testCases...)
	}
	return all
}
