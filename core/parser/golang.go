package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"golang.org/x/tools/cover"

	"github.com/huangsam/covtree/core/coverage"
)

// blockLine matches one coverprofile block: name.go:line.column,line.column numStmt count
var blockLine = regexp.MustCompile(`^(.+):([0-9]+)\.([0-9]+),([0-9]+)\.([0-9]+) ([0-9]+) ([0-9]+)$`)

const modePrefix = "mode:"

// ParseGo decodes a Go coverprofile as written by `go test -coverprofile`.
// Lines that are not valid blocks are defects. A missing mode header is
// tolerated and treated as "mode: set". A profile covering one module
// yields that module; several modules are returned below a container.
func ParseGo(r io.Reader, fileName string, mode ProcessingMode, log *Log) (*coverage.Node, error) {
	rec := newRecorder(fileName, mode, log)

	// 1. Pre-filter the input so that the profile parser only sees valid lines
	clean, err := filterProfile(r, rec)
	if err != nil {
		return nil, err
	}

	// 2. Parse and merge blocks per file
	profiles, err := cover.ParseProfilesFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, rec.fatal(0, "%v", err)
	}
	if len(profiles) == 0 {
		return nil, rec.fatal(0, "no coverage blocks found")
	}

	// 3. Each file goes to the module of its own import path, so the tree
	// of a file never depends on what else the profile holds
	var order []*coverage.Node
	modules := make(map[string]*coverage.Node)
	for _, p := range profiles {
		mod, rel := splitModulePath(p.FileName)
		module, ok := modules[mod]
		if !ok {
			module = coverage.NewModuleNode(mod)
			modules[mod] = module
			order = append(order, module)
		}
		if err := addProfile(module, p, mod, rel); err != nil {
			return nil, err
		}
	}
	if len(order) == 1 {
		return order[0], nil
	}

	// 4. Several modules share a container, as after merging their reports
	root := coverage.NewContainerNode(defaultModuleName)
	for _, module := range order {
		if err := root.AddChild(module); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// filterProfile copies valid lines of r into a string, reporting every other
// non-empty line as a defect.
func filterProfile(r io.Reader, rec *recorder) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	sawMode := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, modePrefix) {
			if sawMode {
				rec.info("%s:%d: ignoring repeated mode line", rec.fileName, lineNo)
				continue
			}
			sawMode = true
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}
		if !blockLine.MatchString(line) {
			if err := rec.defect(lineNo, line, "not a coverage block"); err != nil {
				return "", err
			}
			continue
		}
		if !sawMode {
			rec.info("%s: no mode line, assuming set", rec.fileName)
			sb.WriteString("mode: set\n")
			sawMode = true
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", rec.fatal(lineNo, "%v", err)
	}
	return sb.String(), nil
}

// addProfile attaches the blocks of one profile as a file node.
func addProfile(root *coverage.Node, p *cover.Profile, mod, rel string) error {
	dir, _ := splitDir(rel)
	pkg, err := root.FindOrCreatePackage(packageName(dir, lastSegment(mod)))
	if err != nil {
		return err
	}
	file, err := pkg.FindOrCreateFile(rel)
	if err != nil {
		return err
	}

	var covered, missed int
	for _, b := range p.Blocks {
		hit := b.Count > 0
		for line := b.StartLine; line <= b.EndLine; line++ {
			if err := file.MarkLine(line, hit); err != nil {
				return err
			}
		}
		if hit {
			covered += b.NumStmt
		} else {
			missed += b.NumStmt
		}
	}

	instructions, err := coverage.NewCoverage(coverage.Instruction, covered, missed)
	if err != nil {
		return err
	}
	return file.AddValue(instructions)
}

// splitModulePath splits an import-path file name into its module path and
// the path relative to the module. A host-like first segment (one holding a
// dot, such as github.com) means the module spans three segments, otherwise
// one.
func splitModulePath(fileName string) (module, rel string) {
	segments := strings.Split(normalizePath(fileName), "/")
	n := 1
	if strings.Contains(segments[0], ".") {
		n = 3
	}
	// Always keep the file name itself out of the module path
	n = min(n, len(segments)-1)
	if n <= 0 {
		return segments[0], segments[len(segments)-1]
	}
	return strings.Join(segments[:n], "/"), strings.Join(segments[n:], "/")
}

func splitDir(rel string) (dir, base string) {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return "", rel
	}
	return rel[:i], rel[i+1:]
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
