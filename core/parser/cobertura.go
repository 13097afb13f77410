package parser

import (
	"io"

	"github.com/huangsam/covtree/core/coverage"
)

type coberturaReport struct {
	Packages []coberturaPackage `xml:"packages>package"`
}

type coberturaPackage struct {
	Name    string           `xml:"name,attr"`
	Classes []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Name         string            `xml:"name,attr"`
	FileName     string            `xml:"filename,attr"`
	McdcPairs    string            `xml:"mcdcpair-coverage,attr"`
	FunctionCall string            `xml:"functioncall-coverage,attr"`
	Methods      []coberturaMethod `xml:"methods>method"`
	Lines        []coberturaLine   `xml:"lines>line"`
}

type coberturaMethod struct {
	Name         string          `xml:"name,attr"`
	Signature    string          `xml:"signature,attr"`
	Complexity   string          `xml:"complexity,attr"`
	McdcPairs    string          `xml:"mcdcpair-coverage,attr"`
	FunctionCall string          `xml:"functioncall-coverage,attr"`
	Lines        []coberturaLine `xml:"lines>line"`
}

type coberturaLine struct {
	Number            string `xml:"number,attr"`
	Hits              string `xml:"hits,attr"`
	Branch            string `xml:"branch,attr"`
	ConditionCoverage string `xml:"condition-coverage,attr"`
}

// ParseCobertura decodes a Cobertura XML report.
func ParseCobertura(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	return parseCobertura(r, fileName, mode, log, false)
}

// ParseVectorCAST decodes a VectorCAST report, which is Cobertura extended
// with MC/DC pair and function call coverage attributes.
func ParseVectorCAST(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	return parseCobertura(r, fileName, mode, log, true)
}

func parseCobertura(r io.Reader, fileName string, mode ProcessingMode, log *Log, vectorCAST bool) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var report coberturaReport
	if _, err := decodeDocument(r, rec, &report, "coverage"); err != nil {
		return nil, err
	}

	root := coverage.NewModuleNode(defaultModuleName)
	for _, p := range report.Packages {
		pkg, err := root.FindOrCreatePackage(packageOrDefault(p.Name))
		if err != nil {
			return nil, err
		}
		for _, c := range p.Classes {
			if err := addCoberturaClass(pkg, c, rec, vectorCAST); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

// addCoberturaClass adds one class below pkg. Class lines carry the line
// detail of the file, method lines carry the per-method ratios.
func addCoberturaClass(pkg *coverage.Node, c coberturaClass, rec *recorder, vectorCAST bool) error {
	if c.FileName == "" {
		return rec.defect(0, c.Name, "class without filename")
	}
	file, err := pkg.FindOrCreateFile(normalizePath(c.FileName))
	if err != nil {
		return err
	}
	class, err := file.FindOrCreateClass(c.Name)
	if err != nil {
		return err
	}

	for _, l := range c.Lines {
		number, hits, ok, err := coberturaLineValues(l, rec)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := file.MarkLine(number, hits > 0); err != nil {
			return err
		}
		if l.Branch == "true" && l.ConditionCoverage != "" {
			covered, missed, ok := parseFraction(l.ConditionCoverage)
			if !ok {
				if err := rec.defect(number, l.ConditionCoverage, "bad condition coverage"); err != nil {
					return err
				}
				continue
			}
			if err := file.AddBranches(number, covered, missed); err != nil {
				return err
			}
		}
	}

	// Class level fractions summarize the methods when there are any
	if vectorCAST && len(c.Methods) == 0 {
		if err := addFractionValue(class, coverage.McdcPair, c.McdcPairs, c.Name, rec); err != nil {
			return err
		}
		if err := addFractionValue(class, coverage.FunctionCall, c.FunctionCall, c.Name, rec); err != nil {
			return err
		}
	}

	for _, m := range c.Methods {
		if err := addCoberturaMethod(class, m, rec, vectorCAST); err != nil {
			return err
		}
	}
	return nil
}

func addCoberturaMethod(class *coverage.Node, m coberturaMethod, rec *recorder, vectorCAST bool) error {
	var lineCovered, lineMissed, branchCovered, branchMissed int
	first := 0
	for _, l := range m.Lines {
		number, hits, ok, err := coberturaLineValues(l, rec)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if first == 0 || number < first {
			first = number
		}
		if hits > 0 {
			lineCovered++
		} else {
			lineMissed++
		}
		if l.Branch == "true" {
			if covered, missed, ok := parseFraction(l.ConditionCoverage); ok {
				branchCovered += covered
				branchMissed += missed
			}
		}
	}

	method, err := findOrCreateMethod(class, m.Name, m.Signature, first)
	if err != nil {
		return err
	}
	if lineCovered+lineMissed > 0 {
		if err := addCoverage(method, coverage.Line, lineCovered, lineMissed); err != nil {
			return err
		}
	}
	if branchCovered+branchMissed > 0 {
		if err := addCoverage(method, coverage.Branch, branchCovered, branchMissed); err != nil {
			return err
		}
	}
	if m.Complexity != "" {
		if cx, ok := parseCount(m.Complexity); ok && cx > 0 {
			if err := addScalar(method, coverage.Complexity, cx); err != nil {
				return err
			}
		}
	}
	if vectorCAST {
		if err := addFractionValue(method, coverage.McdcPair, m.McdcPairs, m.Name, rec); err != nil {
			return err
		}
		if err := addFractionValue(method, coverage.FunctionCall, m.FunctionCall, m.Name, rec); err != nil {
			return err
		}
	}
	return nil
}

// coberturaLineValues validates one <line> element. ok is false when the
// line was skipped as a defect.
func coberturaLineValues(l coberturaLine, rec *recorder) (number, hits int, ok bool, err error) {
	number, valid := parseLineNumber(l.Number)
	if !valid {
		return 0, 0, false, rec.defect(0, l.Number, "bad line number")
	}
	hits, valid = parseCount(l.Hits)
	if !valid {
		return 0, 0, false, rec.defect(number, l.Hits, "bad hit count")
	}
	return number, hits, true, nil
}

// addFractionValue adds an optional "50% (1/2)" attribute as a ratio.
func addFractionValue(n *coverage.Node, metric coverage.Metric, attr, owner string, rec *recorder) error {
	if attr == "" {
		return nil
	}
	covered, missed, ok := parseFraction(attr)
	if !ok {
		return rec.defect(0, owner, "bad %s attribute '%s'", metric, attr)
	}
	return addCoverage(n, metric, covered, missed)
}

func addCoverage(n *coverage.Node, metric coverage.Metric, covered, missed int) error {
	v, err := coverage.NewCoverage(metric, covered, missed)
	if err != nil {
		return err
	}
	return n.AddValue(v)
}

func addScalar(n *coverage.Node, metric coverage.Metric, amount int) error {
	v, err := coverage.NewValue(metric, amount)
	if err != nil {
		return err
	}
	return n.AddValue(v)
}

func packageOrDefault(name string) string {
	if name == "" {
		return defaultModuleName
	}
	return name
}
