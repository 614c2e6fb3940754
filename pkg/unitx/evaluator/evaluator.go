// Package evaluator is the tree-walking interpreter for UnitX.
//
// Eval walks an AST over an explicit *Context. Expressions evaluate to
// *Value; statements evaluate to NULL on normal completion or to one of the
// control signals (*ReturnValue, *BreakSignal, *ContinueSignal). A fatal
// problem is an *Error, which every compound form passes straight up.
package evaluator

import (
	"fmt"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/ast"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// EvalProgram evaluates a whole program and reports a fatal error to the
// context's sink exactly once. A top-level return ends the program normally.
func EvalProgram(program *ast.Program, ctx *Context) Object {
	result := evalStatements(program.Statements, ctx)

	switch r := result.(type) {
	case *ReturnValue:
		result = NULL
	case *BreakSignal:
		result = controlError(ctx, "break", r.Token)
	case *ContinueSignal:
		result = controlError(ctx, "continue", r.Token)
	}

	if err, ok := result.(*Error); ok {
		ctx.Logger.Debug().Str("code", err.Code).Int("line", err.Line).Msg(err.Message)
		if ctx.Sink != nil {
			ctx.Sink.ReportError(err.Inspect(), lexer.Token{Line: err.Line, Column: err.Column})
		}
		return err
	}
	return NULL
}

// Eval evaluates one node.
func Eval(node ast.Node, ctx *Context) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalStatements(node.Statements, ctx)

	case *ast.ExpressionStatement:
		return evalExpressionStatement(node, ctx)

	case *ast.BlockStatement:
		if ctx.ignoreBlocks() {
			return NULL
		}
		ctx.Scopes.Push()
		defer ctx.Scopes.Pop()
		return evalStatements(node.Statements, ctx)

	case *ast.FunctionDeclaration:
		return evalFunctionDeclaration(node, ctx)

	case *ast.RepStatement:
		return evalRepStatement(node, ctx)

	case *ast.IfStatement:
		return evalIfStatement(node, ctx)

	case *ast.ReturnStatement:
		if node.Value == nil {
			return &ReturnValue{Value: noneValue(node.Token)}
		}
		val := evalValue(node.Value, ctx)
		if isError(val) {
			return val
		}
		resolved, err := val.(*Value).resolved(ctx)
		if err != nil {
			return err
		}
		return &ReturnValue{Value: resolved}

	case *ast.BreakStatement:
		return &BreakSignal{Token: node.Token}

	case *ast.ContinueStatement:
		return &ContinueSignal{Token: node.Token}

	case *ast.PrintStatement:
		return evalPrintStatement(node, ctx)

	case *ast.AssertStatement:
		return evalAssertStatement(node, ctx)

	case *ast.BorderStatement:
		fmt.Fprintln(ctx.Out, node.Token.Literal)
		return NULL

	// Expressions
	case ast.Expression:
		return evalValue(node, ctx)
	}

	return NULL
}

// evalStatements runs statements in the current frame, stopping at the
// first error or control signal.
func evalStatements(stmts []ast.Statement, ctx *Context) Object {
	for _, statement := range stmts {
		result := Eval(statement, ctx)

		switch result.(type) {
		case *Error, *ReturnValue, *BreakSignal, *ContinueSignal:
			return result
		}
	}
	return NULL
}

// evalBody runs the body of if, rep or a call. A block body gets no frame of
// its own; the controlling statement owns the scope.
func evalBody(body ast.Statement, ctx *Context) Object {
	if block, ok := body.(*ast.BlockStatement); ok {
		return evalStatements(block.Statements, ctx)
	}
	return Eval(body, ctx)
}

func evalExpressionStatement(node *ast.ExpressionStatement, ctx *Context) Object {
	val := evalValue(node.Expression, ctx)
	if isError(val) {
		return val
	}
	payload, unit, err := val.(*Value).resolve(ctx)
	if err != nil {
		return err
	}
	if ctx.Interactive && ctx.Echo {
		fmt.Fprintln(ctx.Out, display(payload, unit))
	}
	return NULL
}

func evalFunctionDeclaration(node *ast.FunctionDeclaration, ctx *Context) Object {
	if ctx.ignoreBlocks() {
		return NULL
	}

	fn := &Function{
		Name:  node.Name.Value,
		Body:  node.Body,
		Frame: ctx.Scopes.Innermost(),
	}
	for _, p := range node.Parameters {
		param := Param{Name: p.Name.Value}
		if p.Default != nil {
			val := evalValue(p.Default, ctx)
			if isError(val) {
				return val
			}
			def, err := val.(*Value).resolved(ctx)
			if err != nil {
				return err
			}
			param.Default = def
		}
		fn.Params = append(fn.Params, param)
	}

	ctx.Scopes.Bind(fn.Name, &Value{Payload: fn, Name: fn.Name, Token: node.Name.Token})
	return NULL
}

func evalRepStatement(node *ast.RepStatement, ctx *Context) Object {
	if ctx.ignoreBlocks() {
		return NULL
	}

	iterable := evalValue(node.Iterable, ctx)
	if isError(iterable) {
		return iterable
	}
	payload, err := iterable.(*Value).Resolve(ctx)
	if err != nil {
		return err
	}

	var (
		count int64
		items []*Value
	)
	switch p := payload.(type) {
	case *Integer:
		count = p.Value
	case *List:
		items = p.Elements
		count = int64(len(items))
	default:
		return newError(ctx, "TYPE-0006", ast.TokenOf(node.Iterable), map[string]any{"Type": typeName(payload)})
	}

	ctx.Scopes.Push()
	defer ctx.Scopes.Pop()

	loopVar := &Value{Name: node.Variable.Value, Token: node.Variable.Token}
	for i := int64(0); i < count; i++ {
		var item *Value
		if items != nil {
			item = items[i]
		} else {
			item = newValue(&Integer{Value: i}, node.Variable.Token)
		}
		if res := Assign(ctx, loopVar, item, node.Variable.Token); isError(res) {
			return res
		}

		result := evalBody(node.Body, ctx)
		switch result.(type) {
		case *Error, *ReturnValue:
			return result
		case *BreakSignal:
			return NULL
		}
	}
	return NULL
}

func evalIfStatement(node *ast.IfStatement, ctx *Context) Object {
	if ctx.ignoreBlocks() {
		return NULL
	}

	cond := evalValue(node.Condition, ctx)
	if isError(cond) {
		return cond
	}
	payload, err := cond.(*Value).Resolve(ctx)
	if err != nil {
		return err
	}

	if isTruthy(payload) {
		return evalBody(node.Consequence, ctx)
	}
	if node.Alternative != nil {
		return evalBody(node.Alternative, ctx)
	}
	return NULL
}

func evalPrintStatement(node *ast.PrintStatement, ctx *Context) Object {
	parts := make([]string, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val := evalValue(arg, ctx)
		if isError(val) {
			return val
		}
		v := val.(*Value)
		payload, unit, err := v.resolve(ctx)
		if err != nil {
			return err
		}

		s := display(payload, unit)
		if node.Dump && v.Name != "" && !isNull(payload) {
			s = v.Name + ": " + s
		}
		parts = append(parts, s)
	}
	fmt.Fprintln(ctx.Out, strings.Join(parts, " "))
	return NULL
}

func evalAssertStatement(node *ast.AssertStatement, ctx *Context) Object {
	val := evalValue(node.Expression, ctx)
	if isError(val) {
		return val
	}
	payload, err := val.(*Value).Resolve(ctx)
	if err != nil {
		return err
	}
	if !isTruthy(payload) {
		return newError(ctx, "ASSERT-0001", ast.TokenOf(node.Expression), map[string]any{
			"Expression": node.Expression.String(),
		})
	}
	return NULL
}

// evalValue evaluates an expression to a *Value or an *Error.
func evalValue(node ast.Expression, ctx *Context) Object {
	switch node := node.(type) {
	case *ast.Identifier:
		if v, ok := ctx.Scopes.Get(node.Value); ok {
			return v
		}
		return &Value{Name: node.Value, Token: node.Token}

	case *ast.IntegerLiteral:
		return newValue(&Integer{Value: node.Value}, node.Token)

	case *ast.FloatLiteral:
		return newValue(&Float{Value: node.Value}, node.Token)

	case *ast.ImaginaryLiteral:
		return newValue(&Complex{Value: complex(0, node.Value)}, node.Token)

	case *ast.StringLiteral:
		return newValue(&String{Value: node.Value}, node.Token)

	case *ast.Boolean:
		return newValue(nativeBoolToBooleanObject(node.Value), node.Token)

	case *ast.NoneLiteral:
		return noneValue(node.Token)

	case *ast.ListLiteral:
		list := &List{Elements: make([]*Value, 0, len(node.Elements))}
		for _, el := range node.Elements {
			val := evalValue(el, ctx)
			if isError(val) {
				return val
			}
			resolved, err := val.(*Value).resolved(ctx)
			if err != nil {
				return err
			}
			list.Elements = append(list.Elements, resolved)
		}
		return newValue(list, node.Token)

	case *ast.AnnotatedExpression:
		return evalAnnotated(node, ctx)

	case *ast.PrefixExpression:
		return evalPrefix(node, ctx)

	case *ast.PostfixExpression:
		if !assignable(node.Left) {
			return notAssignable(ctx, node.Left, node.Token)
		}
		target := evalValue(node.Left, ctx)
		if isError(target) {
			return target
		}
		if node.Operator == "++" {
			return Increment(ctx, target.(*Value), node.Token)
		}
		return Decrement(ctx, target.(*Value), node.Token)

	case *ast.InfixExpression:
		return evalInfix(node, ctx)

	case *ast.AssignExpression:
		return evalAssign(node, ctx)

	case *ast.CallExpression:
		return evalCall(node, ctx)
	}

	return newError(ctx, "PARSE-0002", ast.TokenOf(node), map[string]any{"Token": node.String()})
}

func evalAnnotated(node *ast.AnnotatedExpression, ctx *Context) Object {
	unit := unitFromLiteral(node.Unit)

	// x{a->b} is a view over the binding; the binding itself is untouched.
	if ident, ok := node.Operand.(*ast.Identifier); ok {
		bound, ok := ctx.Scopes.Get(ident.Value)
		if !ok {
			return &Value{Name: ident.Value, Unit: unit, Token: ident.Token}
		}
		if list, ok := bound.Payload.(*List); ok {
			return &Value{Payload: annotateList(list, unit), Name: bound.Name, Token: node.Token}
		}
		return &Value{Payload: bound.Payload, Name: bound.Name, Unit: unit, Token: node.Token}
	}

	val := evalValue(node.Operand, ctx)
	if isError(val) {
		return val
	}
	payload, err := val.(*Value).Resolve(ctx)
	if err != nil {
		return err
	}
	if list, ok := payload.(*List); ok {
		return newValue(annotateList(list, unit), node.Token)
	}
	return &Value{Payload: payload, Unit: unit, Token: node.Token}
}

// annotateList applies an annotation to every element.
func annotateList(list *List, unit units.Unit) *List {
	out := &List{Elements: make([]*Value, len(list.Elements))}
	for i, e := range list.Elements {
		out.Elements[i] = &Value{Payload: e.Payload, Unit: unit, Token: e.Token}
	}
	return out
}

func unitFromLiteral(ul *ast.UnitLiteral) units.Unit {
	if ul.Clear {
		return units.None
	}
	return units.Converting(ul.SourceNumer, ul.Numer, ul.SourceDenom, ul.Denom)
}

func evalPrefix(node *ast.PrefixExpression, ctx *Context) Object {
	right := evalValue(node.Right, ctx)
	if isError(right) {
		return right
	}
	operand := right.(*Value)

	switch node.Operator {
	case "++", "--":
		if !assignable(node.Right) {
			return notAssignable(ctx, node.Right, node.Token)
		}
	}

	switch node.Operator {
	case "-":
		return Negate(ctx, operand, node.Token)
	case "!":
		return Not(ctx, operand, node.Token)
	case "++":
		return Increment(ctx, operand, node.Token)
	case "--":
		return Decrement(ctx, operand, node.Token)
	}
	return newError(ctx, "TYPE-0007", node.Token, map[string]any{"Operator": node.Operator, "Type": "?"})
}

func evalInfix(node *ast.InfixExpression, ctx *Context) Object {
	left := evalValue(node.Left, ctx)
	if isError(left) {
		return left
	}

	if node.Operator == "&&" || node.Operator == "||" {
		lp, err := left.(*Value).Resolve(ctx)
		if err != nil {
			return err
		}
		truthy := isTruthy(lp)
		if node.Operator == "&&" && !truthy {
			return newValue(FALSE, node.Token)
		}
		if node.Operator == "||" && truthy {
			return newValue(TRUE, node.Token)
		}
		right := evalValue(node.Right, ctx)
		if isError(right) {
			return right
		}
		rp, err := right.(*Value).Resolve(ctx)
		if err != nil {
			return err
		}
		return newValue(nativeBoolToBooleanObject(isTruthy(rp)), node.Token)
	}

	right := evalValue(node.Right, ctx)
	if isError(right) {
		return right
	}
	l, r := left.(*Value), right.(*Value)

	switch node.Operator {
	case "+", "-", "*", "/", "%":
		return Arithmetic(ctx, node.Operator, l, r, node.Token)
	case "==", "!=", "<", "<=", ">", ">=":
		return Compare(ctx, node.Operator, l, r, node.Token)
	}
	return newError(ctx, "PARSE-0002", node.Token, map[string]any{"Token": node.Operator})
}

func evalAssign(node *ast.AssignExpression, ctx *Context) Object {
	if !assignable(node.Target) {
		return notAssignable(ctx, node.Target, node.Token)
	}
	source := evalValue(node.Value, ctx)
	if isError(source) {
		return source
	}
	target := evalValue(node.Target, ctx)
	if isError(target) {
		return target
	}

	if node.Operator == "=" {
		return Assign(ctx, target.(*Value), source.(*Value), node.Token)
	}
	return CompoundAssign(ctx, node.Operator, target.(*Value), source.(*Value), node.Token)
}

// assignable reports whether exp names a variable, possibly through a unit
// view such as x{cm}.
func assignable(exp ast.Expression) bool {
	switch e := exp.(type) {
	case *ast.Identifier:
		return true
	case *ast.AnnotatedExpression:
		_, ok := e.Operand.(*ast.Identifier)
		return ok
	}
	return false
}

func notAssignable(ctx *Context, exp ast.Expression, tok lexer.Token) *Error {
	return newError(ctx, "TYPE-0005", tok, map[string]any{"Target": exp.String()})
}

func evalCall(node *ast.CallExpression, ctx *Context) Object {
	name := node.Function.Value
	bound, ok := ctx.Scopes.Get(name)
	if !ok {
		return nameError(ctx, name, node.Function.Token)
	}
	fn, ok := bound.Payload.(*Function)
	if !ok {
		return newError(ctx, "TYPE-0004", node.Function.Token, map[string]any{"Type": typeName(bound.Payload)})
	}

	args := make([]*Value, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		val := evalValue(a, ctx)
		if isError(val) {
			return val
		}
		resolved, err := val.(*Value).resolved(ctx)
		if err != nil {
			return err
		}
		args = append(args, resolved)
	}

	expected := -1
	switch {
	case len(args) < fn.Required():
		expected = fn.Required()
	case len(args) > len(fn.Params):
		expected = len(fn.Params)
	}
	if expected >= 0 {
		return newError(ctx, "TYPE-0003", node.Function.Token, map[string]any{
			"Name":     name,
			"Expected": expected,
			"Got":      len(args),
		})
	}

	ctx.Logger.Debug().Str("function", name).Int("args", len(args)).Int("depth", ctx.Scopes.Depth()).Msg("call")

	ctx.Scopes.Push()
	defer ctx.Scopes.Pop()

	for i, p := range fn.Params {
		var arg *Value
		switch {
		case i < len(args):
			arg = args[i]
		case p.Default != nil:
			arg = &Value{Payload: p.Default.Payload, Unit: p.Default.Unit}
		default:
			arg = noneValue(node.Token)
		}
		ctx.Scopes.Bind(p.Name, &Value{Payload: arg.Payload, Name: p.Name, Unit: arg.Unit, Token: arg.Token})
	}

	result := evalStatements(fn.Body.Statements, ctx)
	switch r := result.(type) {
	case *Error:
		return r
	case *ReturnValue:
		return &Value{Payload: r.Value.Payload, Name: name, Unit: r.Value.Unit, Token: node.Function.Token}
	case *BreakSignal:
		return controlError(ctx, "break", r.Token)
	case *ContinueSignal:
		return controlError(ctx, "continue", r.Token)
	}
	return noneValue(node.Function.Token)
}

// display formats a resolved payload with its unit suffix.
func display(payload Object, unit units.Unit) string {
	if isNull(payload) {
		return NULL.Inspect()
	}
	return payload.Inspect() + unit.String()
}
