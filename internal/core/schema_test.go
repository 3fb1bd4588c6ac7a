package core

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaPath = "testdata/samplesheet.schema.json"

func loadTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadSchema(testSchemaPath)
	require.NoError(t, err)
	return s
}

func TestLoadSchema_Columns(t *testing.T) {
	s := loadTestSchema(t)

	cols := s.Columns()
	assert.ElementsMatch(t, DefaultAllowedColumns, cols)
	assert.True(t, sort.StringsAreSorted(cols))

	cols[0] = "mutated"
	assert.NotEqual(t, "mutated", s.Columns()[0], "Columns must return a copy")
}

func TestLoadSchema_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.json")
		_, err := LoadSchema(path)

		var le *SchemaLoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, path, le.Path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.True(t, strings.HasPrefix(err.Error(), "load schema "+path))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseSchema([]byte(`{"items": `))

		var le *SchemaLoadError
		require.ErrorAs(t, err, &le)
		assert.Empty(t, le.Path)
	})

	t.Run("not a draft 4 schema", func(t *testing.T) {
		_, err := ParseSchema([]byte(`{"type": 5}`))

		var le *SchemaLoadError
		assert.True(t, errors.As(err, &le))
	})
}

func TestSchema_ValidateRecords(t *testing.T) {
	s := loadTestSchema(t)

	t.Run("valid records", func(t *testing.T) {
		recs := []samplesheet.Record{
			{"Sample_ID": "s1", "index": "ACGTACGT", "index2": ""},
			{"Sample_ID": "s2", "index": "SI-GA-A1"},
		}
		assert.Empty(t, s.ValidateRecords(recs))
	})

	t.Run("empty table", func(t *testing.T) {
		assert.Empty(t, s.ValidateRecords(nil))
	})

	t.Run("violations sorted by schema path", func(t *testing.T) {
		recs := []samplesheet.Record{
			{"Sample_ID": "s1"},
			{"Sample_ID": "s2", "index": "ACGTXX"},
		}
		errs := s.ValidateRecords(recs)
		require.Len(t, errs, 2)

		assert.Equal(t, KindField, errs[0].Kind)
		assert.Equal(t, []string{"items", "properties", "index", "pattern"}, errs[0].Path)
		assert.True(t, strings.HasPrefix(errs[0].Render(), "index: "))
		assert.Contains(t, errs[0].Render(), "does not match pattern")

		assert.Equal(t, []string{"items", "required"}, errs[1].Path)
		assert.Contains(t, errs[1].Render(), "missing properties")
		assert.Contains(t, errs[1].Render(), "index")
	})
}

func TestSplitPointer(t *testing.T) {
	assert.Nil(t, splitPointer(""))
	assert.Nil(t, splitPointer("/"))
	assert.Equal(t, []string{"items", "properties", "a/b", "c~d"}, splitPointer("/items/properties/a~1b/c~0d"))
}

func TestLessPath(t *testing.T) {
	assert.True(t, lessPath([]string{"items", "properties"}, []string{"items", "required"}))
	assert.True(t, lessPath([]string{"items"}, []string{"items", "required"}))
	assert.False(t, lessPath([]string{"items", "required"}, []string{"items", "required"}))
}
