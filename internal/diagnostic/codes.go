package diagnostic

// Code names a diagnostic event so callers and tests never match on message text.
type Code string

// Parser codes.
const (
	Syntax                   Code = "syntax"
	SwitchMixedCaseKinds     Code = "switch-mixed-case-kinds"
	GuardNotSupported        Code = "guard-not-supported"
	PatternNotSupported      Code = "pattern-not-supported"
	RestrictedIdentifierUsed Code = "restricted-identifier-as-type-name"
)

// Case label resolution codes.
const (
	DuplicateDefaultCase                      Code = "duplicate-default-case"
	CaseExpressionMustBeConstant              Code = "case-expression-must-be-constant"
	EnumConstantsCannotBeSurroundedByParens   Code = "enum-constants-cannot-be-surrounded-by-parenthesis"
	EnumSwitchCannotTargetField               Code = "enum-switch-cannot-target-field"
	CannotUseQualifiedEnumConstantInCaseLabel Code = "cannot-use-qualified-enum-constant-in-case-label"
	TypeMismatch                              Code = "type-mismatch"
)

// Other checker codes.
const (
	UndefinedName                 Code = "undefined-name"
	UndefinedType                 Code = "undefined-type"
	DuplicateDeclaration          Code = "duplicate-declaration"
	IncorrectSwitchType           Code = "incorrect-switch-type"
	DuplicateCase                 Code = "duplicate-case"
	SwitchExpressionNotExhaustive Code = "switch-expression-not-exhaustive"
	SwitchExpressionNoResult      Code = "switch-expression-no-result"
	YieldOutsideSwitch            Code = "yield-outside-switch-expression"
	BreakOutsideSwitch            Code = "break-outside-switch"
	InvalidOperand                Code = "invalid-operand"
	UnreachableCode               Code = "unreachable-code"
	DeadCode                      Code = "dead-code"
)

// Lint codes.
const (
	LintRestrictedIdentifier Code = "lint-restricted-identifier"
	LintMissingEnumCase      Code = "lint-missing-enum-case"
	LintFallthrough          Code = "lint-fallthrough"
)
