package eval

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"gofvm/env"
)

var atomicBlock = regexp.MustCompile(`^\s*atomic\s*\{(.*)\}\s*$`)

// Assignments interprets actions that are sequences of assignments, such as
// "x := x + 1; y := 0", optionally wrapped in "atomic{...}". The statements
// are applied in order, each one seeing the updates of the previous ones.
// Assignments never block.
type Assignments struct{}

var _ ActionDef = Assignments{}

func (Assignments) IsMatchingAction(action string) bool {
	_, err := parseAssignments(action)
	return err == nil
}

func (Assignments) Effect(e env.Env, action string) (env.Env, bool, error) {
	stmts, err := parseAssignments(action)
	if err != nil {
		return env.Env{}, false, err
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			// x, y := y, x evaluates every right hand side first
			values := make([]env.Value, len(s.Rhs))
			for i, rhs := range s.Rhs {
				if values[i], err = evalExpr(e, rhs); err != nil {
					return env.Env{}, false, err
				}
			}
			for i, lhs := range s.Lhs {
				e = e.Set(lhs.(*ast.Ident).Name, values[i])
			}
		case *ast.IncDecStmt:
			name := s.X.(*ast.Ident).Name
			v, ok := e.Get(name)
			if !ok {
				return env.Env{}, false, fmt.Errorf("%w: %v", ErrUnboundVariable, name)
			}
			if !v.IsInt() {
				return env.Env{}, false, fmt.Errorf("%w: %v%v", ErrType, name, s.Tok)
			}
			if s.Tok == token.INC {
				e = e.Set(name, env.Int(v.AsInt()+1))
			} else {
				e = e.Set(name, env.Int(v.AsInt()-1))
			}
		}
	}
	return e, true, nil
}

func parseAssignments(action string) ([]ast.Stmt, error) {
	key := "stmt:" + action
	if cached, ok := parsed.Get(key); ok {
		if err, isErr := cached.(error); isErr {
			return nil, err
		}
		return cached.([]ast.Stmt), nil
	}
	stmts, err := parseStatements(action)
	if err != nil {
		parsed.Set(key, err, 1)
		return nil, err
	}
	parsed.Set(key, stmts, 1)
	return stmts, nil
}

func parseStatements(action string) ([]ast.Stmt, error) {
	body := action
	if m := atomicBlock.FindStringSubmatch(action); m != nil {
		body = m[1]
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: empty action", ErrSyntax)
	}
	src := "package p\nfunc _() {\n" + body + "\n}"
	file, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	var stmts []ast.Stmt
	for _, stmt := range file.Decls[0].(*ast.FuncDecl).Body.List {
		switch s := stmt.(type) {
		case *ast.EmptyStmt:
			continue
		case *ast.AssignStmt:
			if s.Tok != token.DEFINE && s.Tok != token.ASSIGN || len(s.Lhs) != len(s.Rhs) {
				return nil, fmt.Errorf("%w: unsupported assignment in %q", ErrSyntax, action)
			}
			for _, lhs := range s.Lhs {
				if _, ok := lhs.(*ast.Ident); !ok {
					return nil, fmt.Errorf("%w: cannot assign to %T", ErrSyntax, lhs)
				}
			}
		case *ast.IncDecStmt:
			if _, ok := s.X.(*ast.Ident); !ok {
				return nil, fmt.Errorf("%w: cannot assign to %T", ErrSyntax, s.X)
			}
		default:
			return nil, fmt.Errorf("%w: %q is not an assignment", ErrSyntax, action)
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: empty action", ErrSyntax)
	}
	return stmts, nil
}
