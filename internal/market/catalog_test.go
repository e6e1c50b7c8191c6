package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog(t *testing.T) {
	in := "1,AAPL\n2,GOOGL\n3,MSFT\n"

	instruments, err := ReadCatalog(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, instruments, 3)
	assert.Equal(t, Instrument{ID: 1, Name: "AAPL"}, instruments[0])
	assert.Equal(t, InstrumentID(2), instruments[1].InstrumentID())
}

func TestReadCatalogHeader(t *testing.T) {
	in := "instrument_id,instrument_name\n1,AAPL\n"

	instruments, err := ReadCatalog(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, instruments, 1)
	assert.Equal(t, "AAPL", instruments[0].Name)
}

func TestReadCatalogBadID(t *testing.T) {
	in := "1,AAPL\nnope,GOOGL\n"

	_, err := ReadCatalog(strings.NewReader(in))

	assert.ErrorContains(t, err, "bad instrument id")
}

func TestReadCatalogDuplicateID(t *testing.T) {
	in := "1,AAPL\n1,GOOGL\n"

	_, err := ReadCatalog(strings.NewReader(in))

	assert.ErrorContains(t, err, "duplicate instrument id")
}

func TestReadCatalogEmptyName(t *testing.T) {
	in := "1,AAPL\n2,\n"

	_, err := ReadCatalog(strings.NewReader(in))

	assert.ErrorContains(t, err, "empty instrument name")
}

func TestReadCatalogDecimals(t *testing.T) {
	in := "1,AAPL,2\n2,GOOGL\n"

	instruments, err := ReadCatalog(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, instruments, 2)
	assert.Equal(t, int8(2), instruments[0].Decimals)
	assert.Equal(t, int8(0), instruments[1].Decimals)
}

func TestReadCatalogBadDecimals(t *testing.T) {
	in := "1,AAPL,extra\n"

	_, err := ReadCatalog(strings.NewReader(in))

	assert.ErrorContains(t, err, "bad decimals")
}

func TestReadCatalogWrongColumns(t *testing.T) {
	in := "1\n"

	_, err := ReadCatalog(strings.NewReader(in))

	assert.ErrorContains(t, err, "columns")
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,AAPL\n2,GOOGL\n"), 0o644))

	instruments, err := LoadCatalog(path)

	require.NoError(t, err)
	assert.Len(t, instruments, 2)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
