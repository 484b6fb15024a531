package discovery

import (
	"fmt"
	"os"
	"regexp"
)

// testFunctionPattern matches Foundry test declarations:
// - function test_deposit() public
// - function test_RevertWhen_Zero (uint256 x) external
// Helpers such as `function setUp()` or `function testFuzz()` are not matched.
var testFunctionPattern = regexp.MustCompile(`\bfunction\s+(test_\w+)\s*\(`)

// Declaration is a test function found in source text
type Declaration struct {
	Name   string
	Offset int // Byte offset where the match begins
}

// Parser parses test files to extract test functions
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Scan returns every test declaration in text, in ascending offset order.
// Duplicate names are kept.
func (p *Parser) Scan(text string) []Declaration {
	matches := testFunctionPattern.FindAllStringSubmatchIndex(text, -1)
	declarations := make([]Declaration, 0, len(matches))

	for _, match := range matches {
		// match[0:2] is the whole match, match[2:4] the captured name
		declarations = append(declarations, Declaration{
			Name:   text[match[2]:match[3]],
			Offset: match[0],
		})
	}

	return declarations
}

// FindTestCases reads a test file and scans it for test functions
func (p *Parser) FindTestCases(filePath string) ([]Declaration, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	return p.Scan(string(content)), nil
}
