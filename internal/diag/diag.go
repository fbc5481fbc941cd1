// Package diag implements the diagnostic engine described in spec.md §7:
// a collector that accumulates typed diagnostics across a pass without
// aborting traversal, gated by an explicit HasErrors() check that
// downstream mutating passes consult before running.
//
// Grounded on the teacher's internal/errors.CompilerError (range +
// message + source-context formatting) and internal/semantic.AnalysisError
// (collect-many-errors shape), generalized to carry a closed Kind enum
// and up to three source ranges, and built on top of go.uber.org/multierr
// for the underlying accumulation the way uber-research-last-diff-analyzer
// threads multierr through its analyzers.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Range is a source span, independently reproducible from any AST/TIR/MIR
// node that implements Ranged.
type Range struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (r Range) String() string {
	if r.File == "" {
		return fmt.Sprintf("%d:%d", r.StartLine, r.StartColumn)
	}
	return fmt.Sprintf("%s:%d:%d", r.File, r.StartLine, r.StartColumn)
}

// Ranged is implemented by any node that can anchor a diagnostic.
type Ranged interface {
	Range() Range
}

// Severity distinguishes hard errors (gate downstream passes) from
// advisory notes (never gate).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Kind is the closed set of diagnostic kinds from spec.md §7.
type Kind string

const (
	KindUnresolvedImport           Kind = "unresolved-import"
	KindUnresolvedType             Kind = "unresolved-type"
	KindDuplicateDeclInPackage     Kind = "duplicate-decl-in-package"
	KindSubpackageShadowsDecl      Kind = "subpackage-shadows-decl"
	KindClassExtendsInterface      Kind = "class-extends-interface"
	KindClassExtendsFinal          Kind = "class-extends-final"
	KindDuplicateSuperInterface    Kind = "duplicate-super-interface"
	KindInterfaceExtendsClass      Kind = "interface-extends-class"
	KindDuplicateMethodSignature   Kind = "duplicate-method-signature"
	KindAbstractMethodNotImpl      Kind = "abstract-method-not-implemented"
	KindBadOverrideReturn          Kind = "bad-override-return"
	KindBadOverrideStatic          Kind = "bad-override-static"
	KindBadOverrideProtectedPublic Kind = "bad-override-protected-over-public"
	KindOverrideOfFinal            Kind = "override-of-final"
	KindDuplicateConstructor       Kind = "duplicate-constructor"
	KindCyclicInheritance          Kind = "cyclic-inheritance"
	KindNameNotFound               Kind = "name-not-found"
	KindNameAmbiguous              Kind = "name-ambiguous"
	KindMethodNotApplicable        Kind = "method-not-applicable"
	KindInvalidAssignment          Kind = "invalid-assignment"
	KindInvalidBinaryOperandTypes  Kind = "invalid-binary-operand-types"
	KindInvalidUnaryOperandType    Kind = "invalid-unary-operand-type"
	KindInvalidCast                Kind = "invalid-cast"
	KindInstanceMemberInStatic     Kind = "instance-member-in-static"
	KindStaticAccessThroughInst    Kind = "static-access-through-instance"
	KindUseOfThisInStatic          Kind = "use-of-this-in-static"
)

// Arg is one of the up to ten inline arguments a diagnostic carries.
type Arg struct {
	S string
	I int
	// isInt distinguishes a zero IntArg from an unset one.
	isInt bool
}

func StrArg(s string) Arg { return Arg{S: s} }
func IntArg(i int) Arg    { return Arg{I: i, isInt: true} }

func (a Arg) String() string {
	if a.isInt {
		return fmt.Sprintf("%d", a.I)
	}
	return a.S
}

// Diagnostic is one reported issue: a kind, severity, message, up to
// three ranges, and up to ten inline arguments.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Ranges   []Range
	Args     []Arg
}

// Error lets a Diagnostic stand in for a plain error, e.g. for
// multierr.Append.
func (d *Diagnostic) Error() string {
	return d.Format()
}

// Format renders the ranges followed by the message, per spec.md §7
// ("printed output lists the ranges followed by the message").
func (d *Diagnostic) Format() string {
	var sb strings.Builder
	for i, r := range d.Ranges {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	if len(d.Ranges) > 0 {
		sb.WriteString(": ")
	}
	sb.WriteString(string(d.Severity.String()))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// Engine accumulates diagnostics across a pass. A single pass may record
// many diagnostics and keep traversing; downstream passes check
// HasErrors before running any mutation, per spec.md §7.
type Engine struct {
	diags []*Diagnostic
	err   error
}

func NewEngine() *Engine {
	return &Engine{}
}

// Report records a diagnostic and keeps it in the running multierr chain
// so AsError() can be used anywhere a plain `error` is expected, while
// Diagnostics() still exposes the structured list for pretty printing.
func (e *Engine) Report(d *Diagnostic) {
	e.diags = append(e.diags, d)
	if d.Severity == SeverityError {
		e.err = multierr.Append(e.err, d)
	}
}

// Errorf is a convenience wrapper building a Diagnostic of severity
// error from a kind, message, and ranges/args.
func (e *Engine) Errorf(kind Kind, msg string, ranges []Range, args ...Arg) {
	e.Report(&Diagnostic{Kind: kind, Severity: SeverityError, Message: msg, Ranges: ranges, Args: args})
}

// Warnf records a warning-severity diagnostic; it never gates
// HasErrors()/AsError().
func (e *Engine) Warnf(kind Kind, msg string, ranges []Range, args ...Arg) {
	e.Report(&Diagnostic{Kind: kind, Severity: SeverityWarning, Message: msg, Ranges: ranges, Args: args})
}

// Diagnostics returns every diagnostic recorded so far, in report order.
func (e *Engine) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(e.diags))
	copy(out, e.diags)
	return out
}

// HasErrors reports whether at least one error-severity diagnostic has
// been recorded.
func (e *Engine) HasErrors() bool {
	return e.err != nil
}

// AsError returns the accumulated errors as a single error, or nil if
// HasErrors() is false.
func (e *Engine) AsError() error {
	return e.err
}

// SortStable orders diagnostics by their first range for deterministic
// printing; diagnostics with no ranges sort first, in report order.
func (e *Engine) SortStable() {
	sort.SliceStable(e.diags, func(i, j int) bool {
		ri, rj := e.diags[i].Ranges, e.diags[j].Ranges
		if len(ri) == 0 || len(rj) == 0 {
			return len(ri) < len(rj)
		}
		a, b := ri[0], rj[0]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartColumn < b.StartColumn
	})
}
