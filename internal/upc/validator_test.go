package upc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/upc"
)

func TestClassify_EmptyInput(t *testing.T) {
	_, err := upc.Classify("   ")
	assert.ErrorIs(t, err, upc.ErrEmptyQuery)
}

func TestClassify_ValidUPCA(t *testing.T) {
	q, err := upc.Classify("012345678905")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryKindUPC, q.Kind)
	assert.Equal(t, "012345678905", q.Canonical)
}

func TestClassify_InvalidChecksumFallsBackToFreeText(t *testing.T) {
	q, err := upc.Classify("012345678906")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryKindFreeText, q.Kind)
}

func TestClassify_StripsWhitespaceAndDashes(t *testing.T) {
	q, err := upc.Classify("0-123456-78905")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryKindUPC, q.Kind)
	assert.Equal(t, "012345678905", q.Canonical)
}

func TestClassify_FreeTextDescriptor(t *testing.T) {
	q, err := upc.Classify("Nike Air Max Sneakers")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryKindFreeText, q.Kind)
	assert.Equal(t, "Nike Air Max Sneakers", q.Canonical)
}

// TestClassify_CheckDigitProperty exercises invariant 7: mutating any
// single digit of a valid UPC-A should, in the overwhelming majority
// of cases, flip validity.
func TestClassify_CheckDigitProperty(t *testing.T) {
	base := "012345678905"
	flips := 0
	for i := 0; i < len(base); i++ {
		for d := byte('0'); d <= '9'; d++ {
			if d == base[i] {
				continue
			}
			mutated := []byte(base)
			mutated[i] = d
			q, err := upc.Classify(string(mutated))
			require.NoError(t, err)
			if q.Kind == domain.QueryKindFreeText {
				flips++
			}
		}
	}
	total := len(base) * 9
	assert.GreaterOrEqual(t, float64(flips)/float64(total), 0.9)
}
