package parser

import (
	"io"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type openCoverSession struct {
	Modules []openCoverModule `xml:"Modules>Module"`
}

type openCoverModule struct {
	SkippedDueTo string           `xml:"skippedDueTo,attr"`
	ModuleName   string           `xml:"ModuleName"`
	Files        []openCoverFile  `xml:"Files>File"`
	Classes      []openCoverClass `xml:"Classes>Class"`
}

type openCoverFile struct {
	UID      string `xml:"uid,attr"`
	FullPath string `xml:"fullPath,attr"`
}

type openCoverClass struct {
	FullName string            `xml:"FullName"`
	Methods  []openCoverMethod `xml:"Methods>Method"`
}

type openCoverMethod struct {
	Complexity     string            `xml:"cyclomaticComplexity,attr"`
	Name           string            `xml:"Name"`
	FileRef        *openCoverFileRef `xml:"FileRef"`
	SequencePoints []openCoverPoint  `xml:"SequencePoints>SequencePoint"`
	BranchPoints   []openCoverPoint  `xml:"BranchPoints>BranchPoint"`
}

type openCoverFileRef struct {
	UID string `xml:"uid,attr"`
}

type openCoverPoint struct {
	VisitCount string `xml:"vc,attr"`
	StartLine  string `xml:"sl,attr"`
}

// ParseOpenCover decodes an OpenCover XML report. All modules that were not
// skipped are folded into one module root; their namespaces become packages.
func ParseOpenCover(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var session openCoverSession
	if _, err := decodeDocument(r, rec, &session, "CoverageSession"); err != nil {
		return nil, err
	}

	root := coverage.NewModuleNode(defaultModuleName)
	for _, m := range session.Modules {
		if m.SkippedDueTo != "" {
			rec.info("%s: skipping module %s (%s)", fileName, m.ModuleName, m.SkippedDueTo)
			continue
		}
		files := make(map[string]string, len(m.Files))
		for _, f := range m.Files {
			files[f.UID] = normalizePath(f.FullPath)
		}
		for _, c := range m.Classes {
			if err := addOpenCoverClass(root, c, files, rec); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func addOpenCoverClass(root *coverage.Node, c openCoverClass, files map[string]string, rec *recorder) error {
	// Compiler generated nested types are reported as Outer/<>c
	className, _, _ := strings.Cut(c.FullName, "/")
	for _, m := range c.Methods {
		if m.FileRef == nil {
			continue
		}
		filePath, ok := files[m.FileRef.UID]
		if !ok {
			if err := rec.defect(0, m.Name, "unknown file reference %s", m.FileRef.UID); err != nil {
				return err
			}
			continue
		}
		pkg, err := root.FindOrCreatePackage(namespace(className, defaultModuleName))
		if err != nil {
			return err
		}
		file, err := pkg.FindOrCreateFile(filePath)
		if err != nil {
			return err
		}
		class, err := file.FindOrCreateClass(className)
		if err != nil {
			return err
		}
		if err := addOpenCoverMethod(file, class, m, rec); err != nil {
			return err
		}
	}
	return nil
}

func addOpenCoverMethod(file, class *coverage.Node, m openCoverMethod, rec *recorder) error {
	name, signature := splitOpenCoverName(m.Name)

	first := 0
	var covered, missed int
	for _, sp := range m.SequencePoints {
		line, visits, ok, err := openCoverPointValues(sp, m.Name, rec)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if first == 0 || line < first {
			first = line
		}
		if err := file.MarkLine(line, visits > 0); err != nil {
			return err
		}
		if visits > 0 {
			covered++
		} else {
			missed++
		}
	}

	method, err := findOrCreateMethod(class, name, signature, first)
	if err != nil {
		return err
	}
	if covered+missed > 0 {
		if err := addCoverage(method, coverage.Line, covered, missed); err != nil {
			return err
		}
	}

	// Branch points are counted per line
	type counter struct{ covered, missed int }
	branches := make(map[int]*counter)
	var order []int
	for _, bp := range m.BranchPoints {
		line, visits, ok, err := openCoverPointValues(bp, m.Name, rec)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		c, seen := branches[line]
		if !seen {
			c = &counter{}
			branches[line] = c
			order = append(order, line)
		}
		if visits > 0 {
			c.covered++
		} else {
			c.missed++
		}
	}
	var branchCovered, branchMissed int
	for _, line := range order {
		c := branches[line]
		if err := file.AddBranches(line, c.covered, c.missed); err != nil {
			return err
		}
		branchCovered += c.covered
		branchMissed += c.missed
	}
	if branchCovered+branchMissed > 0 {
		if err := addCoverage(method, coverage.Branch, branchCovered, branchMissed); err != nil {
			return err
		}
	}

	if cx, ok := parseCount(m.Complexity); ok && cx > 0 {
		return addScalar(method, coverage.Complexity, cx)
	}
	return nil
}

func openCoverPointValues(p openCoverPoint, owner string, rec *recorder) (line, visits int, ok bool, err error) {
	line, valid := parseLineNumber(p.StartLine)
	if !valid {
		return 0, 0, false, rec.defect(0, owner, "bad start line '%s'", p.StartLine)
	}
	visits, valid = parseCount(p.VisitCount)
	if !valid {
		return 0, 0, false, rec.defect(line, owner, "bad visit count '%s'", p.VisitCount)
	}
	return line, visits, true, nil
}

// splitOpenCoverName turns "System.Void Ns.Type::Method(System.Int32)" into
// the method name and its parameter list.
func splitOpenCoverName(full string) (name, signature string) {
	if _, after, ok := strings.Cut(full, "::"); ok {
		full = after
	}
	if i := strings.Index(full, "("); i >= 0 {
		return full[:i], full[i:]
	}
	return full, ""
}
