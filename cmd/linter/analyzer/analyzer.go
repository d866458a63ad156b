package analyzer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

const (
	analyzerName = "errleak"
	analyzerDoc  = "reports HTTP handlers that write an error's text to the response"

	leakMessage = "error text written to HTTP response"
)

// Analyzer reports http.Error, ResponseWriter.Write and fmt.Fprint* calls
// whose payload carries the text of an error value.
var Analyzer = &analysis.Analyzer{
	Name:     analyzerName,
	Doc:      analyzerDoc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var errorIface = types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

func run(pass *analysis.Pass) (interface{}, error) {
	writer := responseWriter(pass.Pkg)
	if writer == nil {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		checkCall(pass, writer, node.(*ast.CallExpr))
	})

	return nil, nil
}

func checkCall(pass *analysis.Pass, writer *types.Interface, call *ast.CallExpr) {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok {
		return
	}

	var payload []ast.Expr
	switch {
	case isPkgFunc(fn, "net/http", "Error") && len(call.Args) == 3:
		payload = call.Args[1:2]
	case fn.Name() == "Write" && len(call.Args) == 1:
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !implements(pass.TypesInfo.TypeOf(sel.X), writer) {
			return
		}
		payload = call.Args
	case isPkgFunc(fn, "fmt", "Fprint", "Fprintf", "Fprintln") && len(call.Args) > 1:
		if !implements(pass.TypesInfo.TypeOf(call.Args[0]), writer) {
			return
		}
		for _, arg := range call.Args[1:] {
			if implements(pass.TypesInfo.TypeOf(arg), errorIface) {
				pass.Reportf(call.Pos(), leakMessage)
				return
			}
		}
		payload = call.Args[1:]
	default:
		return
	}

	for _, expr := range payload {
		if containsErrorText(pass, expr) {
			pass.Reportf(call.Pos(), leakMessage)
			return
		}
	}
}

// containsErrorText reports whether expr calls Error() on an error value.
func containsErrorText(pass *analysis.Pass, expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if ok && sel.Sel.Name == "Error" && len(call.Args) == 0 &&
			implements(pass.TypesInfo.TypeOf(sel.X), errorIface) {
			found = true
			return false
		}
		return true
	})
	return found
}

func isPkgFunc(fn *types.Func, pkgPath string, names ...string) bool {
	if fn.Pkg() == nil || fn.Pkg().Path() != pkgPath {
		return false
	}
	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		return false
	}
	for _, name := range names {
		if fn.Name() == name {
			return true
		}
	}
	return false
}

func implements(t types.Type, iface *types.Interface) bool {
	if t == nil {
		return false
	}
	return types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface)
}

// responseWriter finds net/http.ResponseWriter among the transitive imports
// of pkg. Packages that never reach net/http cannot write HTTP responses.
func responseWriter(pkg *types.Package) *types.Interface {
	seen := make(map[*types.Package]bool)
	var walk func(p *types.Package) *types.Interface
	walk = func(p *types.Package) *types.Interface {
		if seen[p] {
			return nil
		}
		seen[p] = true
		if p.Path() == "net/http" {
			obj := p.Scope().Lookup("ResponseWriter")
			if obj == nil {
				return nil
			}
			iface, _ := obj.Type().Underlying().(*types.Interface)
			return iface
		}
		for _, imp := range p.Imports() {
			if iface := walk(imp); iface != nil {
				return iface
			}
		}
		return nil
	}
	return walk(pkg)
}
