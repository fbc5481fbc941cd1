package tir

import (
	"fmt"
	"strings"
)

// Dump renders fn as textual IR, used by this package's snapshot test.
// cmd/jcc1 build handles only --dump=arena-stats and never lowers to TIR,
// so no CLI flag reaches Dump. Not meant to be a parseable format,
// only a stable debugging rendering.
func Dump(fn *Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "define %s @%s(", fn.Ty.Ret, fn.Name)
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s", p.Ty, p.String())
	}
	sb.WriteString(") {\n")
	for _, b := range fn.Blocks {
		fmt.Fprintf(&sb, "%s:\n", b.Name)
		for _, i := range b.Instructions() {
			sb.WriteString("  ")
			sb.WriteString(dumpInst(i))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func dumpInst(i Instruction) string {
	res := ""
	if i.Type() != nil {
		if _, isVoid := i.Type().(*VoidType); !isVoid {
			res = i.String() + " = "
		}
	}
	switch v := i.(type) {
	case *AllocaInst:
		return fmt.Sprintf("%salloca %s", res, v.Elem)
	case *LoadInst:
		return fmt.Sprintf("%sload %s, %s", res, v.Type(), v.Ptr())
	case *StoreInst:
		return fmt.Sprintf("store %s, %s", v.Val(), v.Ptr())
	case *BinaryInst:
		return fmt.Sprintf("%s%s %s, %s", res, v.Op, v.LHS(), v.RHS())
	case *CompareInst:
		return fmt.Sprintf("%scmp.%s %s, %s", res, v.Op, v.LHS(), v.RHS())
	case *ICastInst:
		return fmt.Sprintf("%sicast %s to %s", res, v.Val(), v.Type())
	case *GEPInst:
		s := fmt.Sprintf("%sgep %s", res, v.Base())
		for j := 0; j < v.NumIndices(); j++ {
			s += ", " + v.Index(j).String()
		}
		return s
	case *CallInst:
		s := fmt.Sprintf("%scall %s(", res, v.Callee())
		for j := 0; j < v.NumArgs(); j++ {
			if j > 0 {
				s += ", "
			}
			s += v.Arg(j).String()
		}
		return s + ")"
	case *BrInst:
		if v.IsConditional() {
			return fmt.Sprintf("br %s, %s, %s", v.Cond(), v.TrueTarget(), v.FalseTarget())
		}
		return fmt.Sprintf("br %s", v.TrueTarget())
	case *RetInst:
		if v.Val() == nil {
			return "ret void"
		}
		return fmt.Sprintf("ret %s", v.Val())
	case *PhiInst:
		s := fmt.Sprintf("%sphi", res)
		for j := 0; j < v.NumIncoming(); j++ {
			if j > 0 {
				s += ","
			}
			s += fmt.Sprintf(" [%s, %s]", v.IncomingValue(j), v.IncomingBlock(j))
		}
		return s
	default:
		return fmt.Sprintf("<unknown inst kind %v>", i.Kind())
	}
}
