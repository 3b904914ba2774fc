package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adiwinata/gudangbot/internal/catalog"
)

var testCandidates = catalog.HeaderCandidates{
	PartID:   []string{"PartID"},
	Name:     []string{"NamaPart", "Nama Barang"},
	Location: []string{"KodeLokasi", "Lokasi"},
	Visual:   []string{"Visual", "Foto"},
}

func buildTestIndex(t *testing.T) *catalog.Index {
	t.Helper()
	rows := [][]interface{}{
		{"PartID", "NamaPart", "KodeLokasi", "Visual"},
		{"BRG-001", "Bearing 6204", "R1-A2", "https://img.example/brg001.jpg"},
		{"BRG-002", "Bearing 6305", "R1-A3", ""},
		{"FLT-010", "Filter Oli", "R2-B1", "https://img.example/flt010.jpg"},
		{"", "", "R9-Z9", ""},
		{"SNS-774", "Sensor Proximity", "", ""},
	}
	return catalog.BuildIndex(rows, testCandidates)
}

func TestBuildIndex_SkipsEmptyRows(t *testing.T) {
	idx := buildTestIndex(t)
	require.Equal(t, 4, idx.Len(), "row with neither id nor name must be skipped")
}

func TestSearch_ExactIDShortCircuits(t *testing.T) {
	idx := buildTestIndex(t)

	results, err := idx.Search("BRG-001")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Bearing 6204", results[0].Name)
}

func TestSearch_ExactIDNormalized(t *testing.T) {
	idx := buildTestIndex(t)

	for _, query := range []string{"brg001", "BRG 001", "brg_001", "  Brg-001  "} {
		results, err := idx.Search(query)
		require.NoError(t, err, query)
		require.Len(t, results, 1, query)
		require.Equal(t, "BRG-001", results[0].PartID, query)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := buildTestIndex(t)

	_, err := idx.Search("   ")
	require.ErrorIs(t, err, catalog.ErrEmptyQuery)
}

func TestSearch_NoMatches(t *testing.T) {
	idx := buildTestIndex(t)

	results, err := idx.Search("kompresor")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearch_NameSubstringRowOrder(t *testing.T) {
	idx := buildTestIndex(t)

	results, err := idx.Search("bearing")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "BRG-001", results[0].PartID)
	require.Equal(t, "BRG-002", results[1].PartID)
}

func TestSearch_IDPrefix(t *testing.T) {
	idx := buildTestIndex(t)

	results, err := idx.Search("FLT")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Filter Oli", results[0].Name)
}

func TestBuildIndex_DuplicateIDFirstWins(t *testing.T) {
	rows := [][]interface{}{
		{"PartID", "NamaPart"},
		{"BRG-001", "Bearing lama"},
		{"BRG-001", "Bearing baru"},
	}
	idx := catalog.BuildIndex(rows, testCandidates)

	results, err := idx.Search("BRG-001")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Bearing lama", results[0].Name)
}

func TestNormalizeID(t *testing.T) {
	require.Equal(t, "BRG001", catalog.NormalizeID(" brg-0 0_1 "))
	require.Equal(t, "SNS774", catalog.NormalizeID("sns774"))
}
