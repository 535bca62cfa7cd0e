package expr

import (
	"mercator-hq/symc/pkg/expr/ast"
	"mercator-hq/symc/pkg/expr/codegen"
	"mercator-hq/symc/pkg/expr/parser"
	"mercator-hq/symc/pkg/expr/transform"
)

// Parse parses text into a typed tree using a parser with no limits and
// no extra functions.
func Parse(text string) (*ast.Tree, error) {
	tree, _, err := parser.NewParser().Parse(text)
	return tree, err
}

// ConvertToC parses text, runs the default transform passes and renders
// the result.
func ConvertToC(text string) (string, error) {
	tree, err := Parse(text)
	if err != nil {
		return "", err
	}
	if _, err := transform.DefaultPipeline().Run(tree); err != nil {
		return "", err
	}
	return codegen.NewGenerator().ConvertRoot(tree)
}
