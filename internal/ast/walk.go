package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || isNilNode(node) || !f(node) {
		return
	}

	switch n := node.(type) {
	case *CompilationUnit:
		for _, t := range n.Types {
			Inspect(t, f)
		}
	case *ClassDecl:
		for _, c := range n.Components {
			Inspect(c, f)
		}
		for _, fd := range n.Fields {
			Inspect(fd, f)
		}
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *EnumDecl:
		for _, c := range n.Constants {
			Inspect(c, f)
		}
		for _, fd := range n.Fields {
			Inspect(fd, f)
		}
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *FieldDecl:
		inspectExpr(n.Init, f)
	case *MethodDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *Block:
		inspectStmts(n.Statements, f)
	case *LocalVarDecl:
		inspectExpr(n.Init, f)
	case *ExprStmt:
		inspectExpr(n.Expr, f)
	case *AssignStmt:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *IfStmt:
		inspectExpr(n.Condition, f)
		inspectStmt(n.Then, f)
		inspectStmt(n.Else, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)
	case *YieldStmt:
		inspectExpr(n.Value, f)
	case *SwitchStmt:
		inspectExpr(n.Expr, f)
		inspectStmts(n.Body, f)
	case *SwitchExpr:
		inspectExpr(n.Expr, f)
		inspectStmts(n.Body, f)
	case *CaseLabel:
		for _, e := range n.Exprs {
			inspectExpr(e, f)
		}
		inspectExpr(n.Guard, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *UnaryExpr:
		inspectExpr(n.Operand, f)
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	}
}

func inspectStmts(list []Statement, f func(Node) bool) {
	for _, s := range list {
		inspectStmt(s, f)
	}
}

func inspectStmt(s Statement, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

// isNilNode catches typed nil pointers stored in an interface.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *MethodDecl:
		return v == nil
	case *TypeRef:
		return v == nil
	}
	return false
}
