package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"logihub/internal/domain"
)

func TestKeywordClassify(t *testing.T) {
	t.Parallel()

	k := NewKeyword()

	cl, err := k.Classify(context.Background(), "LED desk lamp with dimmer", domain.CategoryElectronics)
	require.NoError(t, err)
	require.Equal(t, "8539.31.000.0", cl.Code)
	require.NotNil(t, cl.DutyRate)
	require.Equal(t, 5.0, *cl.DutyRate)
	require.Equal(t, 12.0, *cl.VATRate)
	require.Contains(t, cl.RequiredDocuments, "certificate of conformity")
}

func TestKeywordClassifyFallsBackToCategory(t *testing.T) {
	t.Parallel()

	k := NewKeyword()

	cl, err := k.Classify(context.Background(), "misc industrial parts", domain.CategoryMachinery)
	require.NoError(t, err)
	require.Equal(t, "8479.89.970.0", cl.Code)

	cl, err = k.Classify(context.Background(), "something unidentifiable", domain.CategoryOther)
	require.NoError(t, err)
	require.Equal(t, "9999.00.000.0", cl.Code)
}

func TestKeywordChemicalsCarryRestrictions(t *testing.T) {
	t.Parallel()

	k := NewKeyword()

	cl, err := k.Classify(context.Background(), "industrial disinfectant", domain.CategoryChemicals)
	require.NoError(t, err)
	require.Equal(t, "3808.94.900.0", cl.Code)
	require.NotEmpty(t, cl.Restrictions)
	require.Contains(t, cl.RequiredDocuments, "safety data sheet")
}

func TestKeywordCandidates(t *testing.T) {
	t.Parallel()

	k := NewKeyword()

	candidates, err := k.Candidates(context.Background(), "cotton t-shirt")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "6109100000", candidates[0].Code)

	candidates, err = k.Candidates(context.Background(), "unknown thing")
	require.NoError(t, err)
	require.Empty(t, candidates)
}
