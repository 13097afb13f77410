package parser

import (
	"io"
	"path"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type jacocoReport struct {
	Name     string          `xml:"name,attr"`
	Groups   []jacocoGroup   `xml:"group"`
	Packages []jacocoPackage `xml:"package"`
}

type jacocoGroup struct {
	Name     string          `xml:"name,attr"`
	Groups   []jacocoGroup   `xml:"group"`
	Packages []jacocoPackage `xml:"package"`
}

type jacocoPackage struct {
	Name        string             `xml:"name,attr"`
	Classes     []jacocoClass      `xml:"class"`
	SourceFiles []jacocoSourceFile `xml:"sourcefile"`
}

type jacocoClass struct {
	Name           string         `xml:"name,attr"`
	SourceFileName string         `xml:"sourcefilename,attr"`
	Methods        []jacocoMethod `xml:"method"`
}

type jacocoMethod struct {
	Name     string          `xml:"name,attr"`
	Desc     string          `xml:"desc,attr"`
	Line     string          `xml:"line,attr"`
	Counters []jacocoCounter `xml:"counter"`
}

type jacocoCounter struct {
	Type    string `xml:"type,attr"`
	Missed  string `xml:"missed,attr"`
	Covered string `xml:"covered,attr"`
}

type jacocoSourceFile struct {
	Name  string       `xml:"name,attr"`
	Lines []jacocoLine `xml:"line"`
}

type jacocoLine struct {
	Number             string `xml:"nr,attr"`
	MissedInstruction  string `xml:"mi,attr"`
	CoveredInstruction string `xml:"ci,attr"`
	MissedBranches     string `xml:"mb,attr"`
	CoveredBranches    string `xml:"cb,attr"`
}

// jacocoCounterMetrics maps the method counters kept as method values.
// METHOD and CLASS counters are derived from the tree shape instead.
var jacocoCounterMetrics = map[string]coverage.Metric{
	"INSTRUCTION": coverage.Instruction,
	"LINE":        coverage.Line,
	"BRANCH":      coverage.Branch,
	"COMPLEXITY":  coverage.Complexity,
}

// ParseJaCoCo decodes a JaCoCo XML report. Groups are flattened into the
// module.
func ParseJaCoCo(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var report jacocoReport
	if _, err := decodeDocument(r, rec, &report, "report"); err != nil {
		return nil, err
	}

	name := report.Name
	if name == "" {
		name = defaultModuleName
	}
	root := coverage.NewModuleNode(name)

	packages := report.Packages
	var flatten func(groups []jacocoGroup)
	flatten = func(groups []jacocoGroup) {
		for _, g := range groups {
			packages = append(packages, g.Packages...)
			flatten(g.Groups)
		}
	}
	flatten(report.Groups)

	for _, p := range packages {
		if err := addJaCoCoPackage(root, p, rec); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func addJaCoCoPackage(root *coverage.Node, p jacocoPackage, rec *recorder) error {
	dir := strings.Trim(p.Name, "/")
	pkg, err := root.FindOrCreatePackage(packageName(dir, defaultModuleName))
	if err != nil {
		return err
	}

	for _, c := range p.Classes {
		if c.SourceFileName == "" {
			if err := rec.defect(0, c.Name, "class without sourcefilename"); err != nil {
				return err
			}
			continue
		}
		file, err := pkg.FindOrCreateFile(path.Join(dir, c.SourceFileName))
		if err != nil {
			return err
		}
		class, err := file.FindOrCreateClass(strings.ReplaceAll(c.Name, "/", "."))
		if err != nil {
			return err
		}
		for _, m := range c.Methods {
			if err := addJaCoCoMethod(class, m, rec); err != nil {
				return err
			}
		}
	}

	for _, sf := range p.SourceFiles {
		file, err := pkg.FindOrCreateFile(path.Join(dir, sf.Name))
		if err != nil {
			return err
		}
		for _, l := range sf.Lines {
			if err := addJaCoCoLine(file, l, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func addJaCoCoMethod(class *coverage.Node, m jacocoMethod, rec *recorder) error {
	line := 0
	if m.Line != "" {
		line, _ = parseLineNumber(m.Line)
	}
	method, err := findOrCreateMethod(class, m.Name, m.Desc, line)
	if err != nil {
		return err
	}
	for _, c := range m.Counters {
		metric, known := jacocoCounterMetrics[c.Type]
		if !known {
			continue
		}
		missed, okMissed := parseCount(c.Missed)
		covered, okCovered := parseCount(c.Covered)
		if !okMissed || !okCovered {
			if err := rec.defect(line, m.Name, "bad %s counter", c.Type); err != nil {
				return err
			}
			continue
		}
		if metric.IsRatio() {
			err = addCoverage(method, metric, covered, missed)
		} else {
			err = addScalar(method, metric, covered+missed)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func addJaCoCoLine(file *coverage.Node, l jacocoLine, rec *recorder) error {
	number, ok := parseLineNumber(l.Number)
	if !ok {
		return rec.defect(0, l.Number, "bad line number")
	}
	ci, okCI := parseCount(l.CoveredInstruction)
	mb, okMB := parseCount(l.MissedBranches)
	cb, okCB := parseCount(l.CoveredBranches)
	if _, okMI := parseCount(l.MissedInstruction); !okMI || !okCI || !okMB || !okCB {
		return rec.defect(number, file.Path(), "bad line counters")
	}
	if err := file.MarkLine(number, ci > 0); err != nil {
		return err
	}
	if mb+cb > 0 {
		return file.AddBranches(number, cb, mb)
	}
	return nil
}
