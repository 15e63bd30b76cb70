package parser

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"pycheck/frontend-go/pkg/nodes"
)

type recordingSink struct {
	lines    []int
	messages []string
}

func (s *recordingSink) Report(line int, message string) {
	s.lines = append(s.lines, line)
	s.messages = append(s.messages, message)
}

func newTestParser(t testing.TB) *ModuleParser {
	t.Helper()
	p, err := NewModuleParser()
	if err != nil {
		t.Fatalf("NewModuleParser error: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func parseSource(t testing.TB, source string) *nodes.SourceFile {
	t.Helper()
	p := newTestParser(t)
	file, err := p.ParseModule([]byte(source), "main.py", nil)
	if err != nil {
		t.Fatalf("ParseModule error: %v", err)
	}
	return file
}

func assertModulesEqual(t testing.TB, expected interface{}, actual interface{}) {
	t.Helper()
	if reflect.DeepEqual(expected, actual) {
		return
	}
	wantJSON, _ := json.Marshal(expected)
	gotJSON, _ := json.Marshal(actual)
	var wantAny interface{}
	var gotAny interface{}
	_ = json.Unmarshal(wantJSON, &wantAny)
	_ = json.Unmarshal(gotJSON, &gotAny)
	if reflect.DeepEqual(wantAny, gotAny) {
		return
	}
	wantPretty, _ := json.MarshalIndent(wantAny, "", "  ")
	gotPretty, _ := json.MarshalIndent(gotAny, "", "  ")
	t.Fatalf("module mismatch\nexpected: %s\n   actual: %s", wantPretty, gotPretty)
}

// expectModule wraps statements in the source file shape parseSource
// produces.
func expectModule(defs ...nodes.Statement) *nodes.SourceFile {
	file := nodes.Module(defs...)
	file.Path = "main.py"
	return file
}

// singleExpr digs the sole expression statement out of a parsed module.
func singleExpr(t testing.TB, file *nodes.SourceFile) nodes.Expression {
	t.Helper()
	if len(file.Defs) != 1 {
		t.Fatalf("expected a single statement, got %d", len(file.Defs))
	}
	stmt, ok := file.Defs[0].(*nodes.ExpressionStmt)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", file.Defs[0])
	}
	return stmt.Expr
}

func describe(v interface{}) string {
	data, _ := json.Marshal(v)
	return fmt.Sprintf("%T %s", v, data)
}
