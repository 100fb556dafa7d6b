package compiler

import "github.com/roach88/jitfront/internal/syntax"

// Lookup tables shared by every translation. They are built at package
// init and never written afterwards.

// reservedPrefix is kept free for names the compiler generates.
const reservedPrefix = "__jit"

// nodeStartTokens is the leading keyword of statement kinds that the
// builder has no handler for, used to size their diagnostic range.
var nodeStartTokens = map[string]string{
	"FunctionDef":      "def",
	"For":              "for",
	"Delete":           "del",
	"ClassDef":         "class",
	"With":             "with",
	"Raise":            "raise",
	"Assert":           "assert",
	"Import":           "import",
	"ImportFrom":       "from",
	"Global":           "global",
	"Break":            "break",
	"Continue":         "continue",
	"AsyncFunctionDef": "async def",
	"AsyncFor":         "async for",
	"AsyncWith":        "async with",
	"Try":              "try",
	"Nonlocal":         "nonlocal",
}

var prettyNodeNames = map[string]string{
	"FunctionDef":      "function definitions",
	"For":              "for loops",
	"Delete":           "del statements",
	"ClassDef":         "class definitions",
	"With":             "with statements",
	"Raise":            "raise statements",
	"Assert":           "assertions",
	"Import":           "import statements",
	"ImportFrom":       "import statements",
	"Global":           "global variables",
	"Break":            "break statements",
	"Continue":         "continue statements",
	"AsyncFunctionDef": "async function definitions",
	"AsyncFor":         "async for loops",
	"AsyncWith":        "async with statements",
	"Try":              "try blocks",
	"Nonlocal":         "nonlocal variables",
	"AnnAssign":        "annotated assignments",
}

var binopTokens = map[syntax.Operator]string{
	syntax.Add:      "+",
	syntax.Sub:      "-",
	syntax.Mult:     "*",
	syntax.Div:      "/",
	syntax.Pow:      "**",
	syntax.Mod:      "%",
	syntax.FloorDiv: "//",
	syntax.BitAnd:   "&",
	syntax.BitXor:   "^",
	syntax.BitOr:    "|",
	syntax.LShift:   "<<",
	syntax.RShift:   ">>",
	syntax.MatMult:  "@",
}

var augassignTokens = map[syntax.Operator]string{
	syntax.Add:  "+",
	syntax.Sub:  "-",
	syntax.Mult: "*",
	syntax.Div:  "/",
	syntax.Mod:  "%",
}

var unopTokens = map[syntax.UnaryOperator]string{
	syntax.Not:    "not",
	syntax.USub:   "-",
	syntax.Invert: "~",
}

var boolopTokens = map[syntax.BoolOperator]string{
	syntax.And: "and",
	syntax.Or:  "or",
}

var cmpopTokens = map[syntax.CmpOperator]string{
	syntax.Eq:    "==",
	syntax.NotEq: "!=",
	syntax.LtE:   "<=",
	syntax.Lt:    "<",
	syntax.GtE:   ">=",
	syntax.Gt:    ">",
	syntax.Is:    "is",
	syntax.IsNot: "is not",
	syntax.In:    "in",
	syntax.NotIn: "not in",
}

// unsupportedNode builds the diagnostic for a node the builder cannot
// translate at all. A reason narrows it to one shape of an otherwise
// handled kind, which makes it NotSupported rather than
// UnsupportedConstruct.
func unsupportedNode(b *builder, n syntax.Node, reason string) *FrontendError {
	kind := n.KindName()
	length := 1
	if tok, ok := nodeStartTokens[kind]; ok {
		length = len(tok)
	}
	pos := n.Position()
	name, ok := prettyNodeNames[kind]
	if !ok {
		name = kind
	}
	errKind := KindUnsupportedConstruct
	if reason != "" {
		name += " " + reason
		errKind = KindNotSupported
	}
	return &FrontendError{
		Kind:     errKind,
		Range:    b.ctx.MakeRange(pos.Lineno, pos.ColOffset, pos.ColOffset+length),
		HasRange: true,
		Message:  name + " aren't supported",
	}
}
