package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/assistfactory/symbol"
)

func descs(owner *symbol.Declaration, member string, ps ...symbol.Parameter) []ParameterDescriptor {
	return describeParameters(owner, member, ps, testMarkers)
}

var matchOwner = &symbol.Declaration{QualifiedName: implName}

func TestDescribeParameter(t *testing.T) {
	t.Parallel()

	p := symbol.Parameter{
		Name: "id",
		Type: symbol.Ref(textType),
		Annotations: symbol.Annotations{
			keyed(testMarkers.Assisted, "a"),
			keyed(testMarkers.Key, " "),
		},
	}
	d := describeParameter(matchOwner, "create", p, testMarkers)

	assert.True(t, d.NativeAssisted)
	assert.Equal(t, "a", d.NativeKey)
	assert.True(t, d.HasLibraryKey)
	assert.Equal(t, "", d.LibraryKey, "blank key counts as no key")
	assert.Equal(t, ParameterKey{Type: textType, Key: "a"}, d.ConstructorKey())
	assert.Equal(t, ParameterKey{Type: textType}, d.FactoryKey())
	assert.Equal(t, implName+".create(id)", d.Node.Path)
}

func TestParameterKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kotlin.String", ParameterKey{Type: "kotlin.String"}.String())
	assert.Equal(t, `kotlin.String keyed "id"`, ParameterKey{Type: "kotlin.String", Key: "id"}.String())
}

func TestMatchParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assisted  []symbol.Parameter
		factory   []symbol.Parameter
		wantOrder []string // constructor names in factory order
		wantKind  Kind
		wantParam string
		wantOther string
		wantCtor  bool
	}{
		{
			name:      "empty_lists_match",
			wantOrder: []string{},
		},
		{
			name:      "single_unkeyed",
			assisted:  []symbol.Parameter{ctorParam("c", textType, "")},
			factory:   []symbol.Parameter{factoryParam("f", textType, "")},
			wantOrder: []string{"c"},
		},
		{
			name: "permuted_keys_follow_factory_order",
			assisted: []symbol.Parameter{
				ctorParam("first", textType, "a"),
				ctorParam("second", textType, "b"),
				ctorParam("count", "kotlin.Int", ""),
			},
			factory: []symbol.Parameter{
				factoryParam("n", "kotlin.Int", ""),
				factoryParam("y", textType, "b"),
				factoryParam("x", textType, "a"),
			},
			wantOrder: []string{"count", "second", "first"},
		},
		{
			name:     "count_mismatch",
			assisted: []symbol.Parameter{ctorParam("c", textType, "")},
			factory: []symbol.Parameter{
				factoryParam("f", textType, ""),
				factoryParam("g", "kotlin.Int", ""),
			},
			wantKind: ParameterCountMismatch,
		},
		{
			name:      "key_mismatch",
			assisted:  []symbol.Parameter{ctorParam("c", textType, "a")},
			factory:   []symbol.Parameter{factoryParam("f", textType, "b")},
			wantKind:  ParameterKeyMismatch,
			wantParam: "f",
		},
		{
			name:      "type_mismatch",
			assisted:  []symbol.Parameter{ctorParam("c", textType, "")},
			factory:   []symbol.Parameter{factoryParam("f", "kotlin.Int", "")},
			wantKind:  ParameterKeyMismatch,
			wantParam: "f",
		},
		{
			name:      "nullability_is_part_of_the_type",
			assisted:  []symbol.Parameter{ctorParam("c", textType, "")},
			factory:   []symbol.Parameter{factoryParam("f", textType+"?", "")},
			wantKind:  ParameterKeyMismatch,
			wantParam: "f",
		},
		{
			name: "duplicate_constructor_key",
			assisted: []symbol.Parameter{
				ctorParam("a", textType, ""),
				ctorParam("b", textType, ""),
			},
			factory: []symbol.Parameter{
				factoryParam("x", textType, ""),
				factoryParam("y", textType, ""),
			},
			wantKind:  DuplicateParameterKey,
			wantParam: "b",
			wantOther: "a",
			wantCtor:  true,
		},
		{
			name: "duplicate_factory_key",
			assisted: []symbol.Parameter{
				ctorParam("a", textType, "k"),
				ctorParam("n", "kotlin.Int", ""),
			},
			factory: []symbol.Parameter{
				factoryParam("x", textType, "k"),
				factoryParam("y", textType, "k"),
			},
			wantKind:  DuplicateParameterKey,
			wantParam: "y",
			wantOther: "x",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, merr := MatchParameters(
				descs(matchOwner, "", tt.assisted...),
				descs(matchOwner, "create", tt.factory...),
			)

			if tt.wantKind == 0 {
				require.Nil(t, merr)
				names := make([]string, 0, len(got))
				for i, m := range got {
					names = append(names, m.Constructor.Name)
					assert.Equal(t, tt.factory[i].Name, m.Factory.Name, "factory order preserved")
				}
				assert.Equal(t, tt.wantOrder, names)
				return
			}

			require.NotNil(t, merr)
			assert.Nil(t, got)
			assert.Equal(t, tt.wantKind, merr.Kind)
			assert.Equal(t, tt.wantKind.String(), merr.Error())
			assert.Equal(t, tt.wantParam, merr.Param.Name)
			assert.Equal(t, tt.wantOther, merr.Other.Name)
			assert.Equal(t, tt.wantCtor, merr.OnConstructor)
			if tt.wantKind == ParameterCountMismatch {
				assert.Equal(t, len(tt.assisted), merr.Want)
				assert.Equal(t, len(tt.factory), merr.Got)
			}
		})
	}
}
