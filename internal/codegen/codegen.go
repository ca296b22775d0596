package codegen

import (
	"sort"
	"strconv"
	"unicode/utf16"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/checker"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/lexer"
)

// Unit is the generated code of one compilation unit
type Unit struct {
	File    string    `json:"file" yaml:"file"`
	Methods []*Method `json:"methods" yaml:"methods"`
}

// Method is the generated code of one method body
type Method struct {
	Owner    string        `json:"owner" yaml:"owner"`
	Name     string        `json:"name" yaml:"name"`
	Code     []Instr       `json:"code" yaml:"code"`
	Lines    []LineEntry   `json:"lines" yaml:"lines"`
	Switches []*SwitchInfo `json:"switches,omitempty" yaml:"switches,omitempty"`
}

// SwitchInfo describes how one switch was dispatched
type SwitchInfo struct {
	Line       int        `json:"line" yaml:"line"`
	Expression bool       `json:"expression" yaml:"expression"`
	Reachable  bool       `json:"reachable" yaml:"reachable"`
	Dispatch   string     `json:"dispatch,omitempty" yaml:"dispatch,omitempty"`
	Keys       []int64    `json:"keys,omitempty" yaml:"keys,omitempty"`
	Cases      []CaseInfo `json:"cases" yaml:"cases"`
}

// CaseInfo records where a case label was placed. Target is -1 for a label
// that was never placed.
type CaseInfo struct {
	Label     string  `json:"label" yaml:"label"`
	Line      int     `json:"line" yaml:"line"`
	Keys      []int64 `json:"keys,omitempty" yaml:"keys,omitempty"`
	Reachable bool    `json:"reachable" yaml:"reachable"`
	Target    int     `json:"target" yaml:"target"`
}

// Generate produces code for every method of units. The units must have
// been checked without errors; res carries the types and constants.
func Generate(units []*ast.CompilationUnit, res *checker.CheckResult) []*Unit {
	out := make([]*Unit, 0, len(units))
	for _, u := range units {
		out = append(out, GenerateUnit(u, res))
	}
	return out
}

// GenerateUnit produces code for the methods of a single unit
func GenerateUnit(u *ast.CompilationUnit, res *checker.CheckResult) *Unit {
	unit := &Unit{File: u.File, Methods: []*Method{}}
	u.Methods(func(owner ast.TypeDecl, m *ast.MethodDecl) {
		if m.Body == nil {
			return
		}
		g := &generator{res: res, stream: NewCodeStream()}
		unit.Methods = append(unit.Methods, g.generateMethod(owner.TypeName(), m))
	})
	return unit
}

type generator struct {
	res    *checker.CheckResult
	stream *CodeStream
	method *Method

	// Enclosing switches, innermost last
	frames []frame
	// Set when the last statement generated ends in a jump
	jumped bool
}

// frame is the exit of a switch being generated
type frame struct {
	end  *BranchLabel
	expr bool
}

func (g *generator) generateMethod(owner string, m *ast.MethodDecl) *Method {
	g.method = &Method{Owner: owner, Name: m.Name}
	g.statements(m.Body.Statements)
	if !g.jumped {
		g.stream.Emit("return", "")
	}
	g.method.Code = g.stream.Code()
	g.method.Lines = g.stream.Lines()
	sort.SliceStable(g.method.Lines, func(i, j int) bool { return g.method.Lines[i].PC < g.method.Lines[j].PC })
	return g.method
}

func (g *generator) statements(list []ast.Statement) {
	g.jumped = false
	for _, s := range list {
		g.stmt(s)
	}
}

func (g *generator) stmt(s ast.Statement) {
	pc := g.stream.Position()
	line, _ := s.Pos()
	defer g.stream.RecordPositionsFrom(pc, line)

	g.jumped = false
	switch n := s.(type) {
	case *ast.Block:
		g.statements(n.Statements)

	case *ast.LocalVarDecl:
		if n.Init != nil {
			g.expr(n.Init)
			g.stream.Emit("store", n.Name)
		}

	case *ast.ExprStmt:
		g.expr(n.Expr)
		g.stream.Emit("pop", "")

	case *ast.AssignStmt:
		g.expr(n.Value)
		g.stream.Emit("store", ast.ExprString(n.Target))

	case *ast.IfStmt:
		g.ifStmt(n)

	case *ast.ReturnStmt:
		if n.Value != nil {
			g.expr(n.Value)
		}
		g.stream.Emit("return", "")
		g.jumped = true

	case *ast.BreakStmt:
		if f := g.innermost(false); f != nil {
			g.stream.Branch("goto", f.end)
		}
		g.jumped = true

	case *ast.YieldStmt:
		g.expr(n.Value)
		if f := g.innermost(true); f != nil {
			g.stream.Branch("goto", f.end)
		}
		g.jumped = true

	case *ast.SwitchStmt:
		g.switchCode(n)
	}
}

func (g *generator) ifStmt(n *ast.IfStmt) {
	if v := g.res.ConstantOf(n.Condition); v.Kind() == constant.Bool {
		if v.Bool() {
			g.stmt(n.Then)
			return
		}
		// the then branch produces no code but its switches are still listed
		g.skip(n.Then)
		if n.Else != nil {
			g.stmt(n.Else)
		}
		return
	}

	g.expr(n.Condition)
	elseLabel := g.stream.NewLabel()
	g.stream.Branch("ifeq", elseLabel)
	g.stmt(n.Then)
	thenJumped := g.jumped
	if n.Else == nil {
		elseLabel.Place()
		g.jumped = false
		return
	}
	end := g.stream.NewLabel()
	if !thenJumped {
		g.stream.Branch("goto", end)
	}
	elseLabel.Place()
	g.stmt(n.Else)
	g.jumped = thenJumped && g.jumped
	end.Place()
}

// skip records the switches of dead code without generating it
func (g *generator) skip(s ast.Statement) {
	ast.Inspect(s, func(n ast.Node) bool {
		if sw, ok := n.(ast.Switch); ok {
			g.describeUnreachable(sw)
			return false
		}
		return true
	})
}

func (g *generator) expr(e ast.Expression) {
	if v := g.res.ConstantOf(e); v.IsConstant() {
		g.stream.Emit("ldc", v.String())
		return
	}
	switch n := e.(type) {
	case *ast.NullLit:
		g.stream.Emit("aconst_null", "")
	case *ast.Name:
		g.stream.Emit("load", n.Name)
	case *ast.QualifiedName:
		g.stream.Emit("getstatic", ast.ExprString(n))
	case *ast.ParenExpr:
		g.expr(n.X)
	case *ast.UnaryExpr:
		g.expr(n.Operand)
		if n.Op != lexer.PLUS {
			g.stream.Emit("unop", n.Op.String())
		}
	case *ast.BinaryExpr:
		g.expr(n.Left)
		g.expr(n.Right)
		g.stream.Emit("binop", n.Op.String())
	case *ast.SwitchExpr:
		g.switchCode(n)
	default:
		g.stream.Emit("ldc", ast.ExprString(e))
	}
}

func (g *generator) innermost(expr bool) *frame {
	for i := len(g.frames) - 1; i >= 0; i-- {
		if g.frames[i].expr == expr {
			return &g.frames[i]
		}
	}
	return nil
}

func isReachable(sw ast.Switch) bool {
	switch n := sw.(type) {
	case *ast.SwitchStmt:
		return n.Reachable
	case *ast.SwitchExpr:
		return n.Reachable
	}
	return false
}

func labelsOf(sw ast.Switch) []*ast.CaseLabel {
	var out []*ast.CaseLabel
	for _, s := range sw.Stmts() {
		if l, ok := s.(*ast.CaseLabel); ok {
			out = append(out, l)
		}
	}
	return out
}

// generateCase places the branch target of a case label and attributes it
// to the label's line. It does nothing for an unreachable label.
func (g *generator) generateCase(label *ast.CaseLabel, target *BranchLabel) {
	if !label.Reachable {
		return
	}
	pc := g.stream.Position()
	target.Place()
	g.stream.RecordPositionsFrom(pc, label.Line)
}

func (g *generator) describeUnreachable(sw ast.Switch) {
	line, _ := sw.Pos()
	info := &SwitchInfo{Line: line, Expression: sw.IsExpression()}
	for _, label := range labelsOf(sw) {
		target := g.stream.NewLabel()
		g.generateCase(label, target)
		info.Cases = append(info.Cases, caseInfo(label, target))
	}
	g.method.Switches = append(g.method.Switches, info)
}

// switchCode generates the selector, the dispatch and the body of sw
func (g *generator) switchCode(sw ast.Switch) {
	if !isReachable(sw) {
		g.describeUnreachable(sw)
		return
	}
	line, _ := sw.Pos()
	info := &SwitchInfo{Line: line, Expression: sw.IsExpression(), Reachable: true}
	g.method.Switches = append(g.method.Switches, info)

	labels := labelsOf(sw)
	targets := make(map[*ast.CaseLabel]*BranchLabel, len(labels))
	for _, l := range labels {
		targets[l] = g.stream.NewLabel()
	}
	end := g.stream.NewLabel()
	dflt := end
	if d := sw.Registry().Default; d != nil {
		dflt = targets[d]
	}

	selector := g.res.TypeOf(sw.Selector())
	g.expr(sw.Selector())

	cases := sw.Registry().Cases
	if selector == checker.TypeString {
		keys, pc := g.stringDispatch(cases, targets, dflt)
		info.Keys = keys
		info.Dispatch = g.stream.code[pc].Op
	} else {
		switch {
		case selector.IsEnum():
			g.stream.Emit("invokevirtual", selector.Name+".ordinal()")
			g.stream.Emit("iaload", "$SWITCH_TABLE$"+selector.Name)
		case selector != nil && checker.Unbox(selector) != selector:
			g.stream.Emit("invokevirtual", selector.Name+"."+checker.Unbox(selector).Name+"Value()")
		}
		var keys []int64
		owner := make(map[int64]*BranchLabel)
		for _, label := range cases {
			for _, v := range label.Constants {
				k, ok := switchKey(v)
				if !ok {
					continue
				}
				if _, dup := owner[k]; !dup {
					owner[k] = targets[label]
					keys = append(keys, k)
				}
			}
		}
		keys = sortedKeys(keys)
		slots := make([]*BranchLabel, len(keys))
		for i, k := range keys {
			slots[i] = owner[k]
		}
		pc := g.stream.Dispatch(keys, slots, dflt)
		info.Keys = keys
		info.Dispatch = g.stream.code[pc].Op
	}

	g.frames = append(g.frames, frame{end: end, expr: sw.IsExpression()})
	arrow := false
	for _, s := range sw.Stmts() {
		label, ok := s.(*ast.CaseLabel)
		if !ok {
			g.stmt(s)
			continue
		}
		if arrow && !g.jumped {
			g.stream.Branch("goto", end)
		}
		arrow = label.IsArrow
		g.generateCase(label, targets[label])
		g.jumped = false
	}
	g.frames = g.frames[:len(g.frames)-1]
	end.Place()
	g.jumped = false

	for _, label := range labels {
		info.Cases = append(info.Cases, caseInfo(label, targets[label]))
	}
}

// stringDispatch switches on the hash code of the selector, then compares
// the selector with every string sharing that hash. It returns the sorted
// hash keys and the position of the dispatch.
func (g *generator) stringDispatch(cases []*ast.CaseLabel, targets map[*ast.CaseLabel]*BranchLabel, dflt *BranchLabel) ([]int64, int) {
	type candidate struct {
		value string
		label *ast.CaseLabel
	}
	byHash := make(map[int64][]candidate)
	var keys []int64
	for _, label := range cases {
		for _, v := range label.Constants {
			if v.Kind() != constant.String {
				continue
			}
			h := int64(StringHash(v.Str()))
			if _, seen := byHash[h]; !seen {
				keys = append(keys, h)
			}
			byHash[h] = append(byHash[h], candidate{v.Str(), label})
		}
	}
	keys = sortedKeys(keys)

	g.stream.Emit("store", "$selector")
	g.stream.Emit("load", "$selector")
	g.stream.Emit("invokevirtual", "String.hashCode()")

	compare := make([]*BranchLabel, len(keys))
	for i := range keys {
		compare[i] = g.stream.NewLabel()
	}
	pc := g.stream.Dispatch(keys, compare, dflt)

	for i, k := range keys {
		compare[i].Place()
		for _, c := range byHash[k] {
			g.stream.Emit("load", "$selector")
			g.stream.Emit("ldc", strconv.Quote(c.value))
			g.stream.Emit("invokevirtual", "String.equals()")
			g.stream.Branch("ifne", targets[c.label])
		}
		g.stream.Branch("goto", dflt)
	}
	return keys, pc
}

// switchKey returns the dispatch key of a folded label constant
func switchKey(v constant.Value) (int64, bool) {
	switch v.Kind() {
	case constant.Int, constant.EnumOrdinal:
		return v.Int64(), true
	case constant.String:
		return int64(StringHash(v.Str())), true
	}
	return 0, false
}

func caseInfo(label *ast.CaseLabel, target *BranchLabel) CaseInfo {
	ci := CaseInfo{
		Label:     label.String(),
		Line:      label.Line,
		Reachable: label.Reachable,
		Target:    target.Position(),
	}
	for _, v := range label.Constants {
		if k, ok := switchKey(v); ok {
			ci.Keys = append(ci.Keys, k)
		}
	}
	return ci
}

// StringHash computes the hash code a Java String reports for s, over its
// UTF-16 code units.
func StringHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}
