package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/assistfactory/symbol"
)

const sample = `externals:
  - dagger.hilt.android.components.ActivityComponent
declarations:
  - name: com.example.Component.Factory
    file: src/Component.kt
    kind: interface
    functions:
      - name: create
        abstract: true
        returns: com.example.Component
        params:
          - name: id
            type: kotlin.String
            annotations:
              - type: assistfactory.AssistedKey
                args: { value: primary }
  - name: com.example.Component
    file: src/Component.kt
    kind: interface
  - name: com.example.Impl
    file: src/Impl.kt
    kind: class
    visibility: internal
    supertypes: [com.example.Component]
    annotations:
      - type: assistfactory.ContributesAssistedFactory
        types:
          boundType: com.example.Component.Factory
          scope: dagger.hilt.android.components.ActivityComponent
    constructors:
      - primary: true
        annotations: [dagger.assisted.AssistedInject]
        params:
          - name: id
            type: kotlin.String
            annotations:
              - type: dagger.assisted.Assisted
                args: { value: primary }
          - name: repo
            type: kotlin.collections.List<kotlin.String>?
`

func TestParse_Sample(t *testing.T) {
	t.Parallel()

	m, err := Parse("m.yaml", []byte(sample))
	require.NoError(t, err)
	require.Len(t, m.Declarations, 3)
	assert.Equal(t, "m.yaml", m.Path)

	impl := m.Declarations[2]
	assert.Equal(t, "com.example.Impl", impl.Name)
	assert.Equal(t, 20, impl.Line)
	require.Len(t, impl.Constructors, 1)
	require.Len(t, impl.Constructors[0].Annotations, 1)
	assert.Equal(t, "dagger.assisted.AssistedInject", impl.Constructors[0].Annotations[0].Type, "bare annotation names decode as a type")
}

func TestTable_Sample(t *testing.T) {
	t.Parallel()

	m, err := Parse("m.yaml", []byte(sample))
	require.NoError(t, err)

	tbl, err := m.Table()
	require.NoError(t, err)

	impl, ok := tbl.Lookup("com.example.Impl")
	require.True(t, ok)
	assert.Equal(t, symbol.KindClass, impl.Kind)
	assert.Equal(t, symbol.VisibilityInternal, impl.Visibility)
	assert.Equal(t, "com.example", impl.Package)
	assert.Equal(t, "src/Impl.kt", impl.File)
	assert.Equal(t, symbol.Pos{File: "m.yaml", Line: 20}, impl.Pos)

	ann, ok := impl.Annotations.Find("assistfactory.ContributesAssistedFactory")
	require.True(t, ok)
	bound, ok := ann.TypeArg("boundType")
	require.True(t, ok)
	assert.Equal(t, "com.example.Component.Factory", bound.Name)

	ctor, ok := impl.PrimaryConstructor()
	require.True(t, ok)
	require.Len(t, ctor.Parameters, 2)
	assert.Equal(t, "kotlin.collections.List<kotlin.String>?", ctor.Parameters[1].Type.String())
	key, ok := ctor.Parameters[0].Annotations[0].StringArg("value")
	require.True(t, ok)
	assert.Equal(t, "primary", key)

	// externals resolve, everything referenced is known
	assert.True(t, tbl.Resolve(symbol.Ref("dagger.hilt.android.components.ActivityComponent")).Resolvable())
	assert.True(t, tbl.Resolve(ctor.Parameters[1].Type).Resolvable())

	factory, ok := tbl.Lookup("com.example.Component.Factory")
	require.True(t, ok)
	require.Len(t, factory.Functions, 1)
	assert.True(t, factory.Functions[0].Abstract)
	assert.Equal(t, "com.example.Component", factory.Functions[0].Returns.Name)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{name: "bad_yaml", doc: "declarations: [", wantMsg: "manifest: invalid"},
		{name: "missing_name", doc: "declarations:\n  - kind: class\n", wantMsg: "declarations[0].name is required"},
		{name: "bad_kind", doc: "declarations:\n  - name: a.B\n    kind: struct\n", wantMsg: "declarations[0].kind must be one of"},
		{name: "bad_visibility", doc: "declarations:\n  - name: a.B\n    kind: class\n    visibility: open\n", wantMsg: "visibility must be one of"},
		{name: "param_missing_type", doc: "declarations:\n  - name: a.B\n    kind: class\n    constructors:\n      - params:\n          - name: x\n", wantMsg: "params[0].type is required"},
		{name: "unknown_top_level_key", doc: "declaration:\n  - name: a.B\n", wantMsg: "field declaration not found"},
		{name: "misspelled_declaration_key", doc: "declarations:\n  - name: a.B\n    kind: class\n    abstarct: true\n", wantMsg: "line 4: field abstarct not found in declaration"},
		{name: "misspelled_constructor_key", doc: "declarations:\n  - name: a.B\n    kind: class\n    constructors:\n      - prams:\n          - { name: x, type: kotlin.String }\n", wantMsg: "line 5: field prams not found in constructor"},
		{name: "misspelled_function_key", doc: "declarations:\n  - name: a.B\n    kind: interface\n    functions:\n      - { name: create, abstrct: true }\n", wantMsg: "field abstrct not found in function"},
		{name: "misspelled_parameter_key", doc: "declarations:\n  - name: a.B\n    kind: class\n    constructors:\n      - params:\n          - { name: x, typ: kotlin.String }\n", wantMsg: "field typ not found in parameter"},
		{name: "misspelled_annotation_key", doc: "declarations:\n  - name: a.B\n    kind: class\n    annotations:\n      - { type: x.Y, arg: { value: k } }\n", wantMsg: "field arg not found in annotation"},
		{name: "duplicate", doc: "declarations:\n  - name: a.B\n    kind: class\n  - name: a.B\n    kind: class\n", wantMsg: `"a.B" already declared at line 2`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("m.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidManifest))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()

	m, err := Parse("m.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, m.Declarations)
}

func TestTable_BadTypeString(t *testing.T) {
	t.Parallel()

	m, err := Parse("m.yaml", []byte("declarations:\n  - name: a.B\n    kind: class\n    supertypes: [\"List<\"]\n"))
	require.NoError(t, err)

	_, err = m.Table()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidManifest))
	assert.Contains(t, err.Error(), "m.yaml:2")
}

func TestLoadTable_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	_, ok := tbl.Lookup("com.example.Impl")
	assert.True(t, ok)

	_, err = LoadTable(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidManifest))
}
