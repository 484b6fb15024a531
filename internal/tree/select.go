package tree

import "fte/internal/domain"

// MatchFunc reports whether name matches a user supplied pattern
type MatchFunc func(name, pattern string) bool

// Selector narrows a tree down to the test functions a run should execute
type Selector struct {
	File string           // Pattern applied to the file display name
	Test string           // Pattern applied to the test function name
	Refs []domain.TestRef // When set, only these tests are selected
}

// Select returns the functions of files matching sel, in display order
func Select(files []*domain.TestFile, sel Selector, match MatchFunc) []*domain.TestFunction {
	var wanted map[domain.TestRef]bool
	if sel.Refs != nil {
		wanted = make(map[domain.TestRef]bool, len(sel.Refs))
		for _, ref := range sel.Refs {
			wanted[ref] = true
		}
	}

	var selected []*domain.TestFunction
	for _, file := range files {
		if !match(file.Name, sel.File) {
			continue
		}
		for _, fn := range file.Functions {
			if !match(fn.Name, sel.Test) {
				continue
			}
			if wanted != nil && !wanted[fn.Ref()] {
				continue
			}
			selected = append(selected, fn)
		}
	}

	return selected
}

// Prune returns copies of the files matching sel that keep only the matching
// functions. Files left without functions are dropped when a test pattern or
// refs narrowed the selection.
func Prune(files []*domain.TestFile, sel Selector, match MatchFunc) []*domain.TestFile {
	selected := Select(files, sel, match)
	keep := make(map[*domain.TestFunction]bool, len(selected))
	for _, fn := range selected {
		keep[fn] = true
	}

	var pruned []*domain.TestFile
	for _, file := range files {
		if !match(file.Name, sel.File) {
			continue
		}

		copied := &domain.TestFile{Path: file.Path, Name: file.Name, Root: file.Root}
		for _, fn := range file.Functions {
			if keep[fn] {
				copied.Functions = append(copied.Functions, &domain.TestFunction{
					Name:     fn.Name,
					Position: fn.Position,
					File:     copied,
				})
			}
		}

		if len(copied.Functions) == 0 && (sel.Test != "" || sel.Refs != nil) {
			continue
		}
		pruned = append(pruned, copied)
	}

	return pruned
}
