package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_HasErrorsGatesOnErrorSeverity(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.HasErrors())
	require.NoError(t, e.AsError())

	e.Warnf(KindUnresolvedType, "unused import %s", nil, StrArg("java.util"))
	assert.False(t, e.HasErrors(), "warnings must not gate HasErrors")

	e.Errorf(KindNameNotFound, "cannot find symbol %s", []Range{{File: "A.java", StartLine: 3, StartColumn: 5}}, StrArg("x"))
	assert.True(t, e.HasErrors())
	require.Error(t, e.AsError())
}

func TestEngine_CollectsMultipleErrorsWithoutAborting(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 3; i++ {
		e.Errorf(KindUnresolvedType, "bad type", []Range{{StartLine: i + 1}})
	}
	assert.Len(t, e.Diagnostics(), 3)
	assert.True(t, e.HasErrors())
}

func TestDiagnostic_FormatListsRangesThenMessage(t *testing.T) {
	d := &Diagnostic{
		Kind:     KindInvalidCast,
		Severity: SeverityError,
		Message:  "cannot cast int to boolean",
		Ranges:   []Range{{File: "A.java", StartLine: 1, StartColumn: 2}},
	}
	got := d.Format()
	assert.Contains(t, got, "A.java:1:2")
	assert.Contains(t, got, "cannot cast int to boolean")
}

func TestEngine_SortStableOrdersByRange(t *testing.T) {
	e := NewEngine()
	e.Errorf(KindNameNotFound, "b", []Range{{File: "A.java", StartLine: 5}})
	e.Errorf(KindNameNotFound, "a", []Range{{File: "A.java", StartLine: 1}})
	e.SortStable()
	ds := e.Diagnostics()
	require.Len(t, ds, 2)
	assert.Equal(t, "a", ds[0].Message)
	assert.Equal(t, "b", ds[1].Message)
}
