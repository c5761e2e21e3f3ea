package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/factura/internal/invoice/domain"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		number int64
		kind   domain.DocumentKind
		want   string
	}{
		{"standard", 2025, 1, domain.DocumentKindStandard, "2025-00001"},
		{"avoir", 2025, 42, domain.DocumentKindAvoir, "A-2025-00042"},
		{"proforma", 2025, 7, domain.DocumentKindProforma, "P-2025-00007"},
		{"padding overflow", 2025, 123456, domain.DocumentKindStandard, "2025-123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Number(tt.year, tt.number, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumber_Rejections(t *testing.T) {
	_, err := Number(99, 1, domain.DocumentKindStandard)
	assert.Error(t, err)

	_, err = Number(2025, 0, domain.DocumentKindStandard)
	assert.Error(t, err)

	_, err = Number(2025, 1, domain.DocumentKind("draft"))
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "", Prefix(domain.DocumentKindStandard))
	assert.Equal(t, "A-", Prefix(domain.DocumentKindAvoir))
	assert.Equal(t, "P-", Prefix(domain.DocumentKindProforma))
}
