package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type metricsReport struct {
	ProjectName string           `xml:"projectName,attr"`
	Packages    []metricsPackage `xml:"package"`
}

type metricsPackage struct {
	Name  string        `xml:"name,attr"`
	Files []metricsFile `xml:"file"`
}

type metricsFile struct {
	Name    string         `xml:"name,attr"`
	Classes []metricsClass `xml:"class"`
}

type metricsClass struct {
	Name    string          `xml:"name,attr"`
	Metrics []metricsValue  `xml:"metric"`
	Methods []metricsMethod `xml:"method"`
}

type metricsMethod struct {
	Name      string         `xml:"name,attr"`
	Signature string         `xml:"signature,attr"`
	Line      string         `xml:"line,attr"`
	Metrics   []metricsValue `xml:"metric"`
}

type metricsValue struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// metricNames maps the metric names of the report to scalar metrics.
var metricNames = map[string]coverage.Metric{
	"cyclomaticcomplexity": coverage.Complexity,
	"complexity":           coverage.Complexity,
	"cognitivecomplexity":  coverage.CognitiveComplexity,
	"npathcomplexity":      coverage.NPathComplexity,
	"linesofcode":          coverage.LOC,
	"loc":                  coverage.LOC,
	"ncss":                 coverage.NCSS,
}

// ParseMetrics decodes the generic metrics XML format, a package, file,
// class, method hierarchy carrying scalar software metrics.
func ParseMetrics(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var report metricsReport
	if _, err := decodeDocument(r, rec, &report, "metrics"); err != nil {
		return nil, err
	}

	name := report.ProjectName
	if name == "" {
		name = defaultModuleName
	}
	root := coverage.NewModuleNode(name)
	for _, p := range report.Packages {
		pkg, err := root.FindOrCreatePackage(packageOrDefault(p.Name))
		if err != nil {
			return nil, err
		}
		for _, f := range p.Files {
			if err := addMetricsFile(pkg, f, rec); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func addMetricsFile(pkg *coverage.Node, f metricsFile, rec *recorder) error {
	if f.Name == "" {
		return rec.defect(0, "", "file without name")
	}
	file, err := pkg.FindOrCreateFile(normalizePath(f.Name))
	if err != nil {
		return err
	}
	for _, c := range f.Classes {
		class, err := file.FindOrCreateClass(c.Name)
		if err != nil {
			return err
		}
		if err := addMetricValues(class, c.Metrics, rec); err != nil {
			return err
		}
		for _, m := range c.Methods {
			line := 0
			if m.Line != "" {
				line, _ = parseLineNumber(m.Line)
			}
			method, err := findOrCreateMethod(class, m.Name, m.Signature, line)
			if err != nil {
				return err
			}
			if err := addMetricValues(method, m.Metrics, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func addMetricValues(n *coverage.Node, values []metricsValue, rec *recorder) error {
	for _, v := range values {
		metric, ok := metricNames[strings.ToLower(strings.TrimSpace(v.Name))]
		if !ok {
			if err := rec.defect(0, n.Name(), "unknown metric '%s'", v.Name); err != nil {
				return err
			}
			continue
		}
		amount, err := parseAmount(v.Value)
		if err != nil {
			if err := rec.defect(0, n.Name(), "bad %s value '%s'", metric, v.Value); err != nil {
				return err
			}
			continue
		}
		if err := addScalar(n, metric, amount); err != nil {
			return err
		}
	}
	return nil
}

// parseAmount accepts integral values, including "12.0".
func parseAmount(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}
