package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoml/adapters/excel"
	"exoml/domain/core"
	"exoml/domain/sample"
)

func TestLoadBuiltin(t *testing.T) {
	store, err := Load(context.Background(), BuiltinSource{})
	require.NoError(t, err)

	assert.Equal(t, 5, store.Len())
	assert.Equal(t, "builtin", store.Source())

	first, err := store.At(0)
	require.NoError(t, err)
	assert.Equal(t, core.SampleID("K00752.01"), first.ID)
	assert.InDelta(t, 66.4, first.Criteria.Average(), 1e-9)

	idx, err := store.IndexOf("K00754.01")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestStoreBounds(t *testing.T) {
	store, err := NewStore(BuiltinSamples())
	require.NoError(t, err)

	for _, i := range []int{-1, store.Len()} {
		_, err := store.At(i)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange, "index %d", i)
	}

	_, err = store.IndexOf("K99999.01")
	assert.True(t, core.IsNotFoundError(err))
}

func TestStoreRejectsBadCatalogs(t *testing.T) {
	_, err := NewStore(nil)
	assert.ErrorIs(t, err, core.ErrEmptyCatalog)

	dup := BuiltinSamples()
	dup[1].ID = dup[0].ID
	_, err = NewStore(dup)
	assert.ErrorContains(t, err, "duplicate")

	bad := BuiltinSamples()
	bad[2].Criteria[0] = 101
	_, err = NewStore(bad)
	assert.Error(t, err)
}

func TestStoreAllReturnsCopy(t *testing.T) {
	store, err := NewStore(BuiltinSamples())
	require.NoError(t, err)

	all := store.All()
	all[0].Name = "changed"

	first, _ := store.At(0)
	assert.Equal(t, "Kepler-227 b", first.Name)
}

const catalogJSON = `{
  "samples": [
    {
      "id": "K01001.01",
      "name": "Test b",
      "disposition": "false-positive",
      "criteria": {
        "transit-signal": 20, "false-positive": 90, "planetary-plausibility": 10,
        "orbit-plausibility": 30, "temperature-habitability": 5
      },
      "data": {"period": 3.5, "snr": 4.2, "stellarTeff": 5120, "fpflag_ss": 1, "fpflag_ec": 1}
    }
  ]
}`

func TestParseJSONSamples(t *testing.T) {
	samples, err := ParseJSONSamples([]byte(catalogJSON), "")
	require.NoError(t, err)
	require.Len(t, samples, 1)

	s := samples[0]
	assert.Equal(t, sample.DispositionFalsePositive, s.Disposition)
	assert.Equal(t, sample.Criteria{20, 90, 10, 30, 5}, s.Criteria)
	assert.Equal(t, [4]int{0, 1, 0, 1}, s.Data.Flags())
	assert.Equal(t, 3.5, s.Data.Period)
	assert.Equal(t, 5120.0, s.Data.StellarTeff)
	assert.Zero(t, s.Data.Depth)
}

func TestParseJSONSamplesErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		dataPath string
		want     string
	}{
		{"invalid json", `{"samples": [`, "", "not valid JSON"},
		{"missing path", `{"other": []}`, "", "not found"},
		{"not an array", `{"samples": {}}`, "", "not an array"},
		{"missing criterion", `[{"id":"K1","disposition":"CANDIDATE","criteria":{}}]`, ".", "missing criterion"},
		{"bad disposition", `[{"id":"K1","disposition":"MAYBE"}]`, ".", "unknown disposition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSONSamples([]byte(tt.body), tt.dataPath)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSourceFor(t *testing.T) {
	src, err := SourceFor("", "")
	require.NoError(t, err)
	assert.IsType(t, BuiltinSource{}, src)

	src, err = SourceFor("catalog.JSON", "samples")
	require.NoError(t, err)
	assert.IsType(t, &JSONSource{}, src)

	src, err = SourceFor("koi.csv", "")
	require.NoError(t, err)
	assert.IsType(t, &excel.KOISource{}, src)

	_, err = SourceFor("koi.parquet", "")
	assert.Error(t, err)
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))

	src, err := SourceFor(path, "samples")
	require.NoError(t, err)

	store, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "json:"+path, store.Source())
}
