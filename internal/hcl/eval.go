package hcl

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// EnvVariable is the root name under which environment variables are
// exposed to expressions, e.g. `path = env.CORPUS_DB`.
const EnvVariable = "env"

// newEvalContext builds the context every configuration expression is
// evaluated in: the process environment plus a small set of string and
// collection functions.
func newEvalContext(environ []string) *hcl.EvalContext {
	envMap := make(map[string]cty.Value)
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && hclIdentifier(pair[0]) {
			envMap[pair[0]] = cty.StringVal(pair[1])
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			EnvVariable: cty.ObjectVal(envMap),
		},
		Functions: map[string]function.Function{
			"concat":    stdlib.ConcatFunc,
			"join":      stdlib.JoinFunc,
			"length":    stdlib.LengthFunc,
			"lower":     stdlib.LowerFunc,
			"split":     stdlib.SplitFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"upper":     stdlib.UpperFunc,
		},
	}
}

// hclIdentifier reports whether name can be used as an attribute name in a
// traversal. Variables such as "ProgramFiles(x86)" are left out.
func hclIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func defaultEvalContext() *hcl.EvalContext {
	return newEvalContext(os.Environ())
}
