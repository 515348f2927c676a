package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_Embedded(t *testing.T) {
	migrations, err := Up()

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_initial", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE")
}

func TestLoad_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"010_tenth.up.sql":    {Data: []byte("SELECT 10;")},
		"002_second.up.sql":   {Data: []byte("SELECT 2;")},
		"002_second.down.sql": {Data: []byte("SELECT -2;")},
	}

	migrations, err := load(fsys)

	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, 10, migrations[1].Version)
	assert.Equal(t, "SELECT 10;", migrations[1].SQL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no version": {"initial.up.sql": {Data: []byte("")}},
		"zero":       {"000_zero.up.sql": {Data: []byte("")}},
		"duplicate": {
			"001_a.up.sql": {Data: []byte("")},
			"001_b.up.sql": {Data: []byte("")},
		},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(fsys)
			assert.Error(t, err)
		})
	}
}
