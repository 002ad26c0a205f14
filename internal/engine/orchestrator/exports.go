package orchestrator

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
)

// StripExports removes top-level export statements from bundled module code
// so the result runs as a classic script. Exported declarations are kept
// without their export keyword, default expressions are kept as expression
// statements and export lists are dropped. The code is re-rendered from its
// syntax tree.
func StripExports(code string) (string, error) {
	ast, err := js.Parse(parse.NewInputString(code), js.Options{})
	if err != nil {
		return "", zerr.Wrap(domain.ErrScriptCompile, err.Error())
	}

	list := ast.BlockStmt.List[:0]
	for _, stmt := range ast.BlockStmt.List {
		export, ok := stmt.(*js.ExportStmt)
		if !ok {
			list = append(list, stmt)
			continue
		}
		if export.Decl == nil {
			continue
		}
		list = append(list, unexported(export))
	}
	ast.BlockStmt.List = list

	out := ast.JSString()
	if out != "" {
		out += "\n"
	}
	return out, nil
}

// unexported turns the declaration of an export statement into a plain statement.
func unexported(export *js.ExportStmt) js.IStmt {
	switch decl := export.Decl.(type) {
	case *js.VarDecl:
		return decl
	case *js.FuncDecl:
		if decl.Name != nil {
			return decl
		}
	case *js.ClassDecl:
		if decl.Name != nil {
			return decl
		}
	}
	return &js.ExprStmt{Value: &js.GroupExpr{X: export.Decl}}
}
