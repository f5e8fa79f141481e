package eval

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/dgraph-io/ristretto"

	"gofvm/env"
)

// Parsed expressions and statement lists, keyed by their source text.
var parsed = newCache()

func newCache() *ristretto.Cache {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 16,
		MaxCost:     1 << 12,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	return cache
}

func parseExpr(src string) (ast.Expr, error) {
	if cached, ok := parsed.Get("expr:" + src); ok {
		return cached.(ast.Expr), nil
	}
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	parsed.Set("expr:"+src, expr, 1)
	return expr, nil
}

// Expressions evaluates conditions written as boolean expressions over the
// environment, such as "x < 3 && !done".
type Expressions struct{}

var _ ConditionDef = Expressions{}

func (Expressions) Evaluate(e env.Env, cond string) (bool, error) {
	v, err := Eval(e, cond)
	if err != nil {
		return false, err
	}
	if !v.IsBool() {
		return false, fmt.Errorf("%w: condition evaluates to %v", ErrType, v)
	}
	return v.AsBool(), nil
}

// Eval evaluates the expression in the environment.
func Eval(e env.Env, src string) (env.Value, error) {
	expr, err := parseExpr(src)
	if err != nil {
		return env.Value{}, err
	}
	return evalExpr(e, expr)
}

func evalExpr(e env.Env, expr ast.Expr) (env.Value, error) {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return evalExpr(e, x.X)

	case *ast.BasicLit:
		switch x.Kind {
		case token.INT:
			i, err := strconv.ParseInt(x.Value, 0, 64)
			if err != nil {
				return env.Value{}, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			return env.Int(i), nil
		case token.STRING:
			s, err := strconv.Unquote(x.Value)
			if err != nil {
				return env.Value{}, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			return env.String(s), nil
		}

	case *ast.Ident:
		switch x.Name {
		case "true":
			return env.True, nil
		case "false":
			return env.False, nil
		}
		v, ok := e.Get(x.Name)
		if !ok {
			return env.Value{}, fmt.Errorf("%w: %v", ErrUnboundVariable, x.Name)
		}
		return v, nil

	case *ast.UnaryExpr:
		v, err := evalExpr(e, x.X)
		if err != nil {
			return env.Value{}, err
		}
		return evalUnary(x.Op, v)

	case *ast.BinaryExpr:
		return evalBinary(e, x)

	case *ast.CallExpr:
		return evalCall(e, x)
	}
	return env.Value{}, fmt.Errorf("%w: unsupported expression %T", ErrSyntax, expr)
}

func evalUnary(op token.Token, v env.Value) (env.Value, error) {
	switch {
	case op == token.NOT && v.IsBool():
		return env.Bool(!v.AsBool()), nil
	case op == token.SUB && v.IsInt():
		return env.Int(-v.AsInt()), nil
	case op == token.ADD && v.IsInt():
		return v, nil
	}
	return env.Value{}, fmt.Errorf("%w: %v%v", ErrType, op, v)
}

func evalBinary(e env.Env, x *ast.BinaryExpr) (env.Value, error) {
	left, err := evalExpr(e, x.X)
	if err != nil {
		return env.Value{}, err
	}

	// && and || do not evaluate the right operand when the left one decides
	if x.Op == token.LAND || x.Op == token.LOR {
		if !left.IsBool() {
			return env.Value{}, fmt.Errorf("%w: %v %v ...", ErrType, left, x.Op)
		}
		if left.AsBool() == (x.Op == token.LOR) {
			return left, nil
		}
		right, err := evalExpr(e, x.Y)
		if err != nil {
			return env.Value{}, err
		}
		if !right.IsBool() {
			return env.Value{}, fmt.Errorf("%w: %v %v %v", ErrType, left, x.Op, right)
		}
		return right, nil
	}

	right, err := evalExpr(e, x.Y)
	if err != nil {
		return env.Value{}, err
	}
	switch x.Op {
	case token.EQL:
		return env.Bool(left == right), nil
	case token.NEQ:
		return env.Bool(left != right), nil
	}

	if left.IsInt() && right.IsInt() {
		l, r := left.AsInt(), right.AsInt()
		switch x.Op {
		case token.ADD:
			return env.Int(l + r), nil
		case token.SUB:
			return env.Int(l - r), nil
		case token.MUL:
			return env.Int(l * r), nil
		case token.QUO, token.REM:
			if r == 0 {
				return env.Value{}, fmt.Errorf("%w: division by zero", ErrType)
			}
			if x.Op == token.QUO {
				return env.Int(l / r), nil
			}
			return env.Int(l % r), nil
		case token.LSS:
			return env.Bool(l < r), nil
		case token.LEQ:
			return env.Bool(l <= r), nil
		case token.GTR:
			return env.Bool(l > r), nil
		case token.GEQ:
			return env.Bool(l >= r), nil
		}
	}
	if left.IsString() && right.IsString() {
		l, r := left.AsString(), right.AsString()
		switch x.Op {
		case token.ADD:
			return env.String(l + r), nil
		case token.LSS:
			return env.Bool(l < r), nil
		case token.GTR:
			return env.Bool(l > r), nil
		}
	}
	return env.Value{}, fmt.Errorf("%w: %v %v %v", ErrType, left, x.Op, right)
}

func evalCall(e env.Env, x *ast.CallExpr) (env.Value, error) {
	fun, ok := x.Fun.(*ast.Ident)
	if !ok || fun.Name != "len" || len(x.Args) != 1 {
		return env.Value{}, fmt.Errorf("%w: unsupported call", ErrSyntax)
	}
	// an unused channel is empty
	if arg, ok := x.Args[0].(*ast.Ident); ok {
		if _, bound := e.Get(arg.Name); !bound {
			return env.Int(0), nil
		}
	}
	v, err := evalExpr(e, x.Args[0])
	if err != nil {
		return env.Value{}, err
	}
	switch {
	case v.IsTuple():
		return env.Int(int64(v.Len())), nil
	case v.IsString():
		return env.Int(int64(len(v.AsString()))), nil
	}
	return env.Value{}, fmt.Errorf("%w: len(%v)", ErrType, v)
}
