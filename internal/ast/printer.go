package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *CompilationUnit:
		sb.WriteString(fmt.Sprintf("%sCompilationUnit: %s\n", prefix, n.File))
		for _, t := range n.Types {
			printNode(sb, t, indent+1)
		}

	case *ClassDecl:
		sb.WriteString(fmt.Sprintf("%s%s: %s%s\n", prefix, kindTitle(n.Kind), n.Name, modifierSuffix(n.Modifiers)))
		if len(n.Permits) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Permits: %s\n", prefix, typeNames(n.Permits)))
		}
		for _, c := range n.Components {
			sb.WriteString(fmt.Sprintf("%s  Component: %s %s\n", prefix, n.Name, c.Name))
		}
		for _, f := range n.Fields {
			printNode(sb, f, indent+1)
		}
		for _, m := range n.Methods {
			printNode(sb, m, indent+1)
		}

	case *EnumDecl:
		sb.WriteString(fmt.Sprintf("%sEnum: %s%s\n", prefix, n.Name, modifierSuffix(n.Modifiers)))
		for i, c := range n.Constants {
			sb.WriteString(fmt.Sprintf("%s  Constant[%d]: %s\n", prefix, i, c.Name))
		}
		for _, f := range n.Fields {
			printNode(sb, f, indent+1)
		}
		for _, m := range n.Methods {
			printNode(sb, m, indent+1)
		}

	case *FieldDecl:
		sb.WriteString(fmt.Sprintf("%sField: %s %s%s\n", prefix, n.Type.Name, n.Name, modifierSuffix(n.Modifiers)))
		if n.Init != nil {
			printNode(sb, n.Init, indent+1)
		}

	case *MethodDecl:
		ret := "void"
		if n.ReturnType != nil {
			ret = n.ReturnType.Name
		}
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Type.Name + " " + p.Name
		}
		sb.WriteString(fmt.Sprintf("%sMethod: %s %s(%s)\n", prefix, ret, n.Name, strings.Join(params, ", ")))
		if n.Body != nil {
			printNode(sb, n.Body, indent+1)
		}

	case *Block:
		sb.WriteString(prefix + "Block\n")
		for _, s := range n.Statements {
			printNode(sb, s, indent+1)
		}

	case *LocalVarDecl:
		sb.WriteString(fmt.Sprintf("%sLocal: %s %s\n", prefix, n.Type.Name, n.Name))
		if n.Init != nil {
			printNode(sb, n.Init, indent+1)
		}

	case *ExprStmt:
		sb.WriteString(prefix + "ExprStmt\n")
		printNode(sb, n.Expr, indent+1)

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssign: %s\n", prefix, ExprString(n.Target)))
		printNode(sb, n.Value, indent+1)

	case *IfStmt:
		sb.WriteString(fmt.Sprintf("%sIf: %s\n", prefix, ExprString(n.Condition)))
		printNode(sb, n.Then, indent+1)
		if n.Else != nil {
			sb.WriteString(prefix + "Else\n")
			printNode(sb, n.Else, indent+1)
		}

	case *ReturnStmt:
		if n.Value == nil {
			sb.WriteString(prefix + "Return\n")
		} else {
			sb.WriteString(fmt.Sprintf("%sReturn: %s\n", prefix, ExprString(n.Value)))
		}

	case *BreakStmt:
		sb.WriteString(prefix + "Break\n")

	case *YieldStmt:
		kind := "Yield"
		if n.Implicit {
			kind = "Yield (implicit)"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, kind, ExprString(n.Value)))

	case *EmptyStmt:
		sb.WriteString(prefix + "Empty\n")

	case *SwitchStmt:
		sb.WriteString(fmt.Sprintf("%sSwitchStmt: %s\n", prefix, ExprString(n.Expr)))
		for _, s := range n.Body {
			printNode(sb, s, indent+1)
		}

	case *SwitchExpr:
		sb.WriteString(fmt.Sprintf("%sSwitchExpr: %s\n", prefix, ExprString(n.Expr)))
		for _, s := range n.Body {
			printNode(sb, s, indent+1)
		}

	case *CaseLabel:
		sb.WriteString(prefix + n.String() + "\n")

	case Expression:
		sb.WriteString(prefix + ExprString(n) + "\n")
	}
}

// String renders the label as it appears in source, e.g. `case A, B ->`.
func (c *CaseLabel) String() string {
	sep := ":"
	if c.IsArrow {
		sep = "->"
	}
	if c.IsDefault() {
		return "default " + sep
	}
	parts := make([]string, len(c.Exprs))
	for i, e := range c.Exprs {
		parts[i] = ExprString(e)
	}
	s := "case " + strings.Join(parts, ", ")
	if c.Guard != nil {
		s += " when " + ExprString(c.Guard)
	}
	return s + " " + sep
}

// ExprString renders an expression in source form.
func ExprString(e Expression) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IntLit:
		return n.Raw
	case *CharLit:
		return n.Raw
	case *StringLit:
		return n.Raw
	case *BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *NullLit:
		return "null"
	case *Name:
		return n.Name
	case *QualifiedName:
		return strings.Join(n.Segments, ".")
	case *ParenExpr:
		return "(" + ExprString(n.X) + ")"
	case *UnaryExpr:
		return n.Op.String() + ExprString(n.Operand)
	case *BinaryExpr:
		return ExprString(n.Left) + " " + n.Op.String() + " " + ExprString(n.Right)
	case *SwitchExpr:
		return "switch (" + ExprString(n.Expr) + ") {...}"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func kindTitle(k ClassKind) string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func modifierSuffix(m Modifiers) string {
	var mods []string
	if m.Public {
		mods = append(mods, "public")
	}
	if m.Private {
		mods = append(mods, "private")
	}
	if m.Protected {
		mods = append(mods, "protected")
	}
	if m.Abstract {
		mods = append(mods, "abstract")
	}
	if m.Sealed {
		mods = append(mods, "sealed")
	}
	if m.Static {
		mods = append(mods, "static")
	}
	if m.Final {
		mods = append(mods, "final")
	}
	if len(mods) == 0 {
		return ""
	}
	return " (" + strings.Join(mods, " ") + ")"
}

func typeNames(refs []*TypeRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
