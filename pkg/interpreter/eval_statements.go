package interpreter

import (
	"fmt"
	"path/filepath"
	"strings"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.AssignmentStatement:
		return i.evaluateAssignment(n, env)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, env)
	case *ast.IfStatement:
		return i.evaluateIfStatement(n, env)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, env)
	case *ast.ForLoop:
		return i.evaluateForLoop(n, env)
	case *ast.WithStatement:
		return i.evaluateWithStatement(n, env)
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n, env)
	case *ast.ImportStatement:
		return i.evaluateImportStatement(n, env)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, env)
	case *ast.TryStatement:
		return i.evaluateTryStatement(n, env)
	case *ast.RaiseStatement:
		return i.evaluateRaiseStatement(n, env)
	case ast.Expression:
		return i.evaluateExpression(n, env)
	default:
		return nil, runtimeError(node.Anchor(), "RuntimeError", "Unknown AST node: %s", node.NodeType())
	}
}

// evaluateStatements runs statements in order and yields the last value.
// Blocks share the enclosing environment.
func (i *Interpreter) evaluateStatements(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null
	for _, stmt := range body {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	if block == nil {
		return runtime.Null, nil
	}
	return i.evaluateStatements(block.Body, env)
}

func (i *Interpreter) evaluateAssignment(stmt *ast.AssignmentStatement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	env.Define(stmt.Target.Name, val)
	return val, nil
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	fn := &runtime.FunctionValue{Declaration: def, Closure: env}
	env.Define(def.ID.Name, fn)
	i.functions[def.ID.Name] = fn
	return runtime.Null, nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evaluateBlock(stmt.Body, env)
	}
	for _, clause := range stmt.ElifClauses {
		cond, err := i.evaluateExpression(clause.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evaluateBlock(clause.Body, env)
		}
	}
	if stmt.ElseBody != nil {
		return i.evaluateBlock(stmt.ElseBody, env)
	}
	return runtime.Null, nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Null, nil
		}
		if _, err := i.evaluateBlock(loop.Body, env); err != nil {
			return nil, err
		}
	}
}

func (i *Interpreter) evaluateForLoop(loop *ast.ForLoop, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evaluateExpression(loop.Iterable, env)
	if err != nil {
		return nil, err
	}
	items, err := runtime.Iterate(iterable)
	if err != nil {
		return nil, runtimeError(loop.Iterable.Anchor(), "TypeError", "%s", err.Error())
	}
	for _, item := range items {
		env.Define(loop.Variable.Name, item)
		if _, err := i.evaluateBlock(loop.Body, env); err != nil {
			return nil, err
		}
	}
	return runtime.Null, nil
}

func (i *Interpreter) evaluateWithStatement(stmt *ast.WithStatement, env *runtime.Environment) (result runtime.Value, err error) {
	resource, err := i.evaluateExpression(stmt.Resource, env)
	if err != nil {
		return nil, err
	}
	saved := env.Snapshot()
	env.Define(stmt.Alias.Name, resource)
	defer func() {
		if closer, ok := resource.(runtime.Closer); ok {
			if closeErr := closer.Close(); closeErr != nil && err == nil {
				result, err = nil, runtimeError(stmt.Anchor(), "IOError", "%s", closeErr.Error())
			}
		}
		env.Update(saved)
	}()
	return i.evaluateBlock(stmt.Body, env)
}

func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement, env *runtime.Environment) (runtime.Value, error) {
	parts := make([]string, 0, len(stmt.Arguments))
	for _, arg := range stmt.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		parts = append(parts, runtime.ToString(val))
	}
	if _, err := fmt.Fprintln(i.opts.Stdout, strings.Join(parts, " ")); err != nil {
		return nil, runtimeError(stmt.Anchor(), "IOError", "%s", err.Error())
	}
	return runtime.Null, nil
}

// evaluateImportStatement executes the resolved module directly in env, so
// its top-level bindings and functions land in the importer's scope.
func (i *Interpreter) evaluateImportStatement(stmt *ast.ImportStatement, env *runtime.Environment) (runtime.Value, error) {
	path, err := i.resolver.Resolve(stmt.Path, stmt.IsLiteral, i.opts.ScriptDir)
	if err != nil {
		return nil, anchor(err, stmt.Anchor())
	}
	path = filepath.Clean(path)
	for idx, active := range i.importing {
		if active == path {
			chain := append(append([]string(nil), i.importing[idx:]...), path)
			return nil, runtimeError(stmt.Anchor(), "ImportError", "Circular import: %s", strings.Join(chain, " -> "))
		}
	}
	program, err := i.loader.Load(path)
	if err != nil {
		return nil, anchor(err, stmt.Anchor())
	}
	i.importing = append(i.importing, path)
	defer func() { i.importing = i.importing[:len(i.importing)-1] }()
	i.opts.Logger.Debug("module imported", "module", stmt.Path, "path", path)
	if _, err := i.evaluateStatements(program.Body, env); err != nil {
		return nil, err
	}
	return runtime.Null, nil
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	var val runtime.Value = runtime.Null
	if stmt.Argument != nil {
		var err error
		val, err = i.evaluateExpression(stmt.Argument, env)
		if err != nil {
			return nil, err
		}
	}
	return nil, returnSignal{value: val}
}

// evaluateTryStatement picks the first handler whose type name matches the
// exception exactly (or has no filter). Handlers run in a copy of env. The
// finally block runs exactly once on every path.
func (i *Interpreter) evaluateTryStatement(stmt *ast.TryStatement, env *runtime.Environment) (runtime.Value, error) {
	_, err := i.evaluateBlock(stmt.Body, env)
	if err != nil {
		if exc, ok := exceptionFrom(err); ok {
			for _, handler := range stmt.Handlers {
				if handler.TypeName != nil && handler.TypeName.Name != exc.TypeName {
					continue
				}
				scope := env.Clone()
				if handler.Binding != nil {
					scope.Define(handler.Binding.Name, exc)
				}
				_, err = i.evaluateBlock(handler.Body, scope)
				break
			}
		}
	}
	if stmt.FinallyBody != nil {
		if _, finallyErr := i.evaluateBlock(stmt.FinallyBody, env); finallyErr != nil {
			return nil, finallyErr
		}
	}
	if err != nil {
		return nil, err
	}
	return runtime.Null, nil
}

func (i *Interpreter) evaluateRaiseStatement(stmt *ast.RaiseStatement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return nil, err
	}
	return nil, raiseSignal{value: makeErrorValue(val), token: stmt.Anchor()}
}
