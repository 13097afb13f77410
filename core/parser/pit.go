package parser

import (
	"io"
	"path"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
)

type pitReport struct {
	Mutations []pitMutation `xml:"mutation"`
}

type pitMutation struct {
	Detected          string `xml:"detected,attr"`
	SourceFile        string `xml:"sourceFile"`
	MutatedClass      string `xml:"mutatedClass"`
	MutatedMethod     string `xml:"mutatedMethod"`
	MethodDescription string `xml:"methodDescription"`
}

// ParsePitest decodes a Pitest mutations.xml report. Every mutation adds one
// to the MUTATION ratio of its method: covered when detected, missed
// otherwise.
func ParsePitest(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)
	var report pitReport
	if _, err := decodeDocument(r, rec, &report, "mutations"); err != nil {
		return nil, err
	}

	root := coverage.NewModuleNode(defaultModuleName)
	for _, m := range report.Mutations {
		if err := addMutation(root, m, rec); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func addMutation(root *coverage.Node, m pitMutation, rec *recorder) error {
	className := strings.TrimSpace(m.MutatedClass)
	methodName := strings.TrimSpace(m.MutatedMethod)
	if className == "" || methodName == "" || m.SourceFile == "" {
		return rec.defect(0, className+"#"+methodName, "mutation without class, method or source file")
	}
	detected, ok := parseBool(m.Detected)
	if !ok {
		return rec.defect(0, className+"#"+methodName, "bad detected flag '%s'", m.Detected)
	}

	pkgName := namespace(className, defaultModuleName)
	pkg, err := root.FindOrCreatePackage(pkgName)
	if err != nil {
		return err
	}
	dir := ""
	if pkgName != defaultModuleName {
		dir = strings.ReplaceAll(pkgName, ".", "/")
	}
	file, err := pkg.FindOrCreateFile(path.Join(dir, strings.TrimSpace(m.SourceFile)))
	if err != nil {
		return err
	}
	// Nested classes share the file of their outer class
	outer, _, _ := strings.Cut(className, "$")
	class, err := file.FindOrCreateClass(outer)
	if err != nil {
		return err
	}
	method, err := findOrCreateMethod(class, methodName, strings.TrimSpace(m.MethodDescription), 0)
	if err != nil {
		return err
	}

	if detected {
		err = addCoverage(method, coverage.Mutation, 1, 0)
	} else {
		err = addCoverage(method, coverage.Mutation, 0, 1)
	}
	return err
}
