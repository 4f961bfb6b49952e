package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
	"salescli/internal/table"
)

func salesTable(t *testing.T, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"Product_ID", "Product_Name", "Units_Sold", "Price", "Month", "Opening_Stock"})
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

func findingsOfKind(findings []Finding, kind FindingKind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestValidator_CleanData(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
		[]string{"P2", "Soap", "5", "4", "Feb", "10"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidator_MissingValue(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, FindingMissingValue, findings[0].Kind)
	assert.Equal(t, "Units_Sold", findings[0].Column)
	assert.Equal(t, 0, findings[0].Row)
	assert.Equal(t, SeverityLow, findings[0].Severity)
}

func TestValidator_TypeMismatch(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "ten", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeMismatch, findings[0].Kind)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
}

func TestValidator_OutOfRange(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "-3", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, FindingOutOfRange, findings[0].Kind)
	assert.Equal(t, "Units_Sold", findings[0].Column)
}

func TestValidator_InvalidMonthLabel(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "January", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeMismatch, findings[0].Kind)
	assert.Equal(t, "Month", findings[0].Column)
}

func TestValidator_TypeMismatchBeatsRange(t *testing.T) {
	// an unparseable cell can never also be range-checked
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "minus five", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeMismatch, findings[0].Kind)
}

func TestValidator_DuplicateKey(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
		[]string{"P1", "Rice", "12", "2.5", "Jan", "20"},
		[]string{"P1", "Rice", "15", "2.5", "Feb", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	dups := findingsOfKind(findings, FindingDuplicateKey)
	require.Len(t, dups, 1)
	// the later occurrence is flagged, the first is kept
	assert.Equal(t, 1, dups[0].Row)
	assert.Empty(t, dups[0].Column)
}

func TestValidator_DuplicateRowSkipsCellChecks(t *testing.T) {
	// a row that will be dropped wholesale yields only the duplicate finding
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "Rice", "10", "2.5", "Jan", "20"},
		[]string{"P1", "Rice", "", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, FindingDuplicateKey, findings[0].Kind)
}

func TestValidator_MissingKeyPartNotDuplicate(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"", "Rice", "10", "2.5", "Jan", "20"},
		[]string{"", "Rice", "12", "2.5", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	assert.Empty(t, findingsOfKind(findings, FindingDuplicateKey))
	assert.Len(t, findingsOfKind(findings, FindingMissingValue), 2)
}

func TestValidator_MultipleFindingsPerRow(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl := salesTable(t,
		[]string{"P1", "", "", "-1", "Jan", "20"},
	)

	findings, err := v.Validate(context.Background(), tbl)
	require.NoError(t, err)

	require.Len(t, findings, 3)
	assert.Len(t, findingsOfKind(findings, FindingMissingValue), 2)
	assert.Len(t, findingsOfKind(findings, FindingOutOfRange), 1)
}

func TestValidator_SchemaMismatch(t *testing.T) {
	v := NewValidator(nil, SalesSchema())
	tbl, err := table.New([]string{"Product_ID", "Units_Sold"})
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchemaMismatch))
}
