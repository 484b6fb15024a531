package domain

import "fmt"

// TestFile represents a discovered *.t.sol file
type TestFile struct {
	Path      string          // Absolute path, unique per tree
	Name      string          // Just the filename
	Root      string          // Workspace root the file was found under
	Functions []*TestFunction // Test functions in scan order
}

// TestFunction represents a single test declaration within a test file
type TestFunction struct {
	Name     string
	Position Position
	File     *TestFile // Parent file, not owned
}

// Position is a location inside a source file.
// Line and Column are zero-based; Column counts characters, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String renders the position the way editors show it (1-based).
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Range is a span between two positions. Test functions carry a zero-length range.
type Range struct {
	Start Position
	End   Position
}

// Range returns the zero-length range anchored at the declaration.
func (f *TestFunction) Range() Range {
	return Range{Start: f.Position, End: f.Position}
}

// Ref returns the identity used when reporting results for this function.
// A function without a parent file yields an empty path.
func (f *TestFunction) Ref() TestRef {
	if f == nil {
		return TestRef{}
	}
	ref := TestRef{Name: f.Name}
	if f.File != nil {
		ref.Path = f.File.Path
	}
	return ref
}

// TestRef identifies a test function by file path and name
type TestRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// String renders the ref as path::name
func (r TestRef) String() string {
	return r.Path + "::" + r.Name
}
