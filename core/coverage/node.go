package coverage

import (
	"fmt"
	"iter"
	"maps"
	"path"
	"slices"
)

// Node is one vertex of the coverage tree. Its metric decides which of the
// specialized attributes apply: file nodes carry a path and line detail,
// method nodes carry a declaration, class nodes carry test cases.
//
// A Node is not safe for concurrent use. Trees built independently share no
// state until they are merged.
type Node struct {
	metric   Metric
	name     string
	parent   *Node // non-owning
	children []*Node
	index    map[childKey]*Node // children by metric and name
	byPath   map[string]*Node   // file children by relative path
	values   map[Metric]Value

	// file nodes
	path     string
	lines    map[int]bool // line -> covered
	branches map[int]branchCounter

	// method nodes
	methodName string
	signature  string
	lineNumber int

	// class nodes
	testCases []TestCase

	aggregate map[Metric]Value
}

type childKey struct {
	metric Metric
	name   string
}

func newNode(metric Metric, name string) *Node {
	return &Node{
		metric: metric,
		name:   name,
		values: make(map[Metric]Value),
	}
}

// NewContainerNode creates a synthetic root that can hold several modules.
func NewContainerNode(name string) *Node {
	return newNode(Container, name)
}

// NewModuleNode creates a module root, e.g. one import path.
func NewModuleNode(name string) *Node {
	return newNode(Module, name)
}

// NewPackageNode creates a package with a dotted name.
func NewPackageNode(name string) *Node {
	return newNode(Package, name)
}

// NewFileNode creates a file node for the given slash-separated relative
// path. An empty name defaults to the base name of the path.
func NewFileNode(name, relativePath string) *Node {
	if name == "" {
		name = path.Base(relativePath)
	}
	n := newNode(File, name)
	n.path = relativePath
	n.lines = make(map[int]bool)
	n.branches = make(map[int]branchCounter)
	return n
}

// NewClassNode creates a class node.
func NewClassNode(name string) *Node {
	return newNode(Class, name)
}

// NewMethodNode creates a method node. The node name is methodName followed
// by signature. A lineNumber <= 0 means the declaration line is unknown.
func NewMethodNode(methodName, signature string, lineNumber int) *Node {
	n := newNode(Method, methodName+signature)
	n.methodName = methodName
	n.signature = signature
	n.lineNumber = lineNumber
	return n
}

// Metric returns the containment level of the node.
func (n *Node) Metric() Metric { return n.metric }

// Name returns the node name, unique among siblings of the same metric.
func (n *Node) Name() string { return n.name }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// HasChildren reports whether the node owns any children.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Path returns the relative path of a file node.
func (n *Node) Path() string { return n.path }

// MethodName returns the bare method name of a method node.
func (n *Node) MethodName() string { return n.methodName }

// Signature returns the signature of a method node, possibly empty.
func (n *Node) Signature() string { return n.signature }

// LineNumber returns the stored declaration line, valid or not.
func (n *Node) LineNumber() int { return n.lineNumber }

// HasValidLineNumber reports whether the declaration line is known.
func (n *Node) HasValidLineNumber() bool { return n.lineNumber > 0 }

// AddChild attaches child as the last child of n. The child metric must be
// allowed below n and no sibling may share its metric and name.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidTreeStructure)
	}
	if !n.metric.CanContain(child.metric) {
		return fmt.Errorf("%w: %s '%s' cannot contain %s '%s'", ErrInvalidTreeStructure, n.metric, n.name, child.metric, child.name)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s '%s' already belongs to '%s'", ErrInvalidTreeStructure, child.metric, child.name, child.parent.name)
	}
	if _, ok := n.Find(child.metric, child.name); ok {
		return fmt.Errorf("%w: duplicate %s '%s' in '%s'", ErrInvalidTreeStructure, child.metric, child.name, n.name)
	}
	n.attach(child)
	n.invalidate()
	return nil
}

// attach links child below n and indexes it. Callers check uniqueness.
func (n *Node) attach(child *Node) {
	if n.index == nil {
		n.index = make(map[childKey]*Node)
	}
	child.parent = n
	n.children = append(n.children, child)
	n.index[childKey{child.metric, child.name}] = child
	if child.metric == File && child.path != "" {
		if n.byPath == nil {
			n.byPath = make(map[string]*Node)
		}
		if _, seen := n.byPath[child.path]; !seen {
			n.byPath[child.path] = child
		}
	}
}

// AddValue attaches v to n, combining it with any value already held for
// the same metric. Containment metrics are always derived and are rejected.
func (n *Node) AddValue(v Value) error {
	if v.metric.IsContainer() {
		return fmt.Errorf("%w: %s is derived from the tree shape", ErrIncompatibleMetric, v.metric)
	}
	if existing, ok := n.values[v.metric]; ok {
		combined, err := existing.Add(v)
		if err != nil {
			return err
		}
		n.values[v.metric] = combined
	} else {
		n.values[v.metric] = v
	}
	n.invalidate()
	return nil
}

// GetValue returns the value held directly by n for metric, without any
// aggregation.
func (n *Node) GetValue(metric Metric) (Value, bool) {
	v, ok := n.values[metric]
	return v, ok
}

// Values returns a copy of the directly held values.
func (n *Node) Values() map[Metric]Value {
	return maps.Clone(n.values)
}

// Find returns the direct child with the given metric and name.
func (n *Node) Find(metric Metric, name string) (*Node, bool) {
	c, ok := n.index[childKey{metric, name}]
	return c, ok
}

// findFileChild returns the direct file child with the given relative path.
func (n *Node) findFileChild(relativePath string) (*Node, bool) {
	c, ok := n.byPath[relativePath]
	return c, ok
}

// fileName picks the name of a new file child: the base name of the path,
// or the whole relative path when a sibling already uses the base name.
func (n *Node) fileName(relativePath string) string {
	name := path.Base(relativePath)
	if _, taken := n.Find(File, name); taken {
		return relativePath
	}
	return name
}

// FindOrCreatePackage returns the child package with the given name,
// creating it when missing.
func (n *Node) FindOrCreatePackage(name string) (*Node, error) {
	if pkg, ok := n.Find(Package, name); ok {
		return pkg, nil
	}
	pkg := NewPackageNode(name)
	if err := n.AddChild(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// FindOrCreateFile returns the child file with the given relative path,
// creating it when missing. The file is named after the base name of the
// path unless a sibling with another path already uses that name.
func (n *Node) FindOrCreateFile(relativePath string) (*Node, error) {
	if file, ok := n.findFileChild(relativePath); ok {
		return file, nil
	}
	file := NewFileNode(n.fileName(relativePath), relativePath)
	if err := n.AddChild(file); err != nil {
		return nil, err
	}
	return file, nil
}

// FindOrCreateClass returns the child class with the given name, creating
// it when missing.
func (n *Node) FindOrCreateClass(name string) (*Node, error) {
	if class, ok := n.Find(Class, name); ok {
		return class, nil
	}
	class := NewClassNode(name)
	if err := n.AddChild(class); err != nil {
		return nil, err
	}
	return class, nil
}

// FindFile returns the file node with the given relative path anywhere
// below n.
func (n *Node) FindFile(relativePath string) (*Node, bool) {
	for f := range n.All(File) {
		if f.path == relativePath {
			return f, true
		}
	}
	return nil, false
}

// All yields n and every descendant whose metric equals metric, depth
// first. The sequence can be iterated any number of times.
func (n *Node) All(metric Metric) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(metric, yield)
	}
}

func (n *Node) walk(metric Metric, yield func(*Node) bool) bool {
	if n.metric == metric && !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(metric, yield) {
			return false
		}
	}
	return true
}

// FileNodes returns all file nodes below n.
func (n *Node) FileNodes() []*Node {
	return slices.Collect(n.All(File))
}

// Files returns the relative paths of all file nodes below n.
func (n *Node) Files() []string {
	var paths []string
	for f := range n.All(File) {
		paths = append(paths, f.path)
	}
	return paths
}

// AggregateValues returns the rolled-up value of every metric measured at
// or below n. Metrics never seen in the subtree are absent.
func (n *Node) AggregateValues() map[Metric]Value {
	return maps.Clone(n.aggregateValues())
}

// AggregateValue returns the rolled-up value of a single metric.
func (n *Node) AggregateValue(metric Metric) (Value, bool) {
	v, ok := n.aggregateValues()[metric]
	return v, ok
}

func (n *Node) aggregateValues() map[Metric]Value {
	if n.aggregate != nil {
		return n.aggregate
	}

	result := make(map[Metric]Value)
	for _, c := range n.children {
		for _, v := range c.aggregateValues() {
			addValue(result, v)
		}
	}
	for _, v := range n.values {
		addValue(result, v)
	}

	// Line detail is authoritative for the file it belongs to
	if len(n.lines) > 0 {
		covered, missed := n.lineCounts()
		result[Line] = Value{metric: Line, covered: covered, missed: missed}
		if _, ok := result[LOC]; !ok {
			result[LOC] = Value{metric: LOC, amount: covered + missed}
		}
	}
	if len(n.branches) > 0 {
		var covered, missed int
		for _, b := range n.branches {
			covered += b.covered
			missed += b.missed
		}
		result[Branch] = Value{metric: Branch, covered: covered, missed: missed}
	}
	if len(n.testCases) > 0 {
		addValue(result, Value{metric: Tests, amount: len(n.testCases)})
	}

	if n.metric.IsContainer() && n.metric != Container {
		if covered, ok := coverageState(result); ok {
			addValue(result, presence(n.metric, covered))
		}
	}

	n.aggregate = result
	return result
}

// coverageState reports whether values hold any coverage data and, if so,
// whether any of it is covered.
func coverageState(values map[Metric]Value) (covered bool, ok bool) {
	for _, m := range coverageMetrics {
		v, found := values[m]
		if !found || v.Total() == 0 {
			continue
		}
		ok = true
		if v.covered > 0 {
			covered = true
		}
	}
	return covered, ok
}

// invalidate drops the cached aggregates of n and its ancestors.
func (n *Node) invalidate() {
	for c := n; c != nil; c = c.parent {
		c.aggregate = nil
	}
}

// Copy returns a deep copy of the subtree rooted at n. The copy has no
// parent.
func (n *Node) Copy() *Node {
	clone := &Node{
		metric:     n.metric,
		name:       n.name,
		values:     maps.Clone(n.values),
		path:       n.path,
		lines:      maps.Clone(n.lines),
		branches:   maps.Clone(n.branches),
		methodName: n.methodName,
		signature:  n.signature,
		lineNumber: n.lineNumber,
		testCases:  slices.Clone(n.testCases),
	}
	clone.children = make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		clone.attach(c.Copy())
	}
	return clone
}

// Filter returns a deep copy of n that keeps only the files whose relative
// path is accepted by keep. Packages and modules left without children by
// the filter are pruned; the root itself is always returned.
func (n *Node) Filter(keep func(relativePath string) bool) *Node {
	root, _ := n.filterCopy(keep)
	if root == nil {
		root = &Node{metric: n.metric, name: n.name, values: make(map[Metric]Value)}
	}
	return root
}

func (n *Node) filterCopy(keep func(string) bool) (*Node, bool) {
	if n.metric == File {
		if !keep(n.path) {
			return nil, false
		}
		return n.Copy(), true
	}

	clone := &Node{
		metric:     n.metric,
		name:       n.name,
		values:     maps.Clone(n.values),
		methodName: n.methodName,
		signature:  n.signature,
		lineNumber: n.lineNumber,
		testCases:  slices.Clone(n.testCases),
	}
	removed := false
	for _, c := range n.children {
		cc, ok := c.filterCopy(keep)
		if !ok {
			removed = true
			continue
		}
		clone.attach(cc)
	}
	if removed && len(clone.children) == 0 && (n.metric == Package || n.metric == Module) {
		return nil, false
	}
	return clone, true
}

// String returns "METRIC name".
func (n *Node) String() string {
	return fmt.Sprintf("%s %s", n.metric, n.name)
}
