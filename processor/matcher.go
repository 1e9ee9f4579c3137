package processor

// MatchedParameter pairs a factory-method parameter with the constructor
// parameter it supplies.
type MatchedParameter struct {
	Factory     ParameterDescriptor
	Constructor ParameterDescriptor
}

// MatchError explains why MatchParameters gave up.
//
//   - ParameterCountMismatch: Want/Got hold the constructor and factory counts.
//   - DuplicateParameterKey: Param and Other share Key; OnConstructor tells which side.
//   - ParameterKeyMismatch: Param (a factory parameter) has no constructor partner.
type MatchError struct {
	Kind          Kind
	Param         ParameterDescriptor
	Other         ParameterDescriptor
	Key           ParameterKey
	OnConstructor bool
	Want, Got     int
}

func (e *MatchError) Error() string { return e.Kind.String() }

// MatchParameters builds the keyed bijection between the constructor's assisted
// parameters and the factory method's parameters. The result follows the
// factory method's order.
//
// Cardinality is checked before anything else so a size difference is never
// reported as a single unmatched parameter. Two parameters with the same key on
// either side are rejected rather than silently collapsed.
func MatchParameters(assisted, factory []ParameterDescriptor) ([]MatchedParameter, *MatchError) {
	if len(assisted) != len(factory) {
		return nil, &MatchError{Kind: ParameterCountMismatch, Want: len(assisted), Got: len(factory)}
	}

	byKey := make(map[ParameterKey]int, len(assisted))
	for i, p := range assisted {
		k := p.ConstructorKey()
		if j, dup := byKey[k]; dup {
			return nil, &MatchError{Kind: DuplicateParameterKey, Param: p, Other: assisted[j], Key: k, OnConstructor: true}
		}
		byKey[k] = i
	}

	used := make(map[int]int, len(factory))
	out := make([]MatchedParameter, 0, len(factory))
	for fi, fp := range factory {
		k := fp.FactoryKey()
		ci, ok := byKey[k]
		if !ok {
			return nil, &MatchError{Kind: ParameterKeyMismatch, Param: fp, Key: k}
		}
		if prev, taken := used[ci]; taken {
			return nil, &MatchError{Kind: DuplicateParameterKey, Param: fp, Other: factory[prev], Key: k}
		}
		used[ci] = fi
		out = append(out, MatchedParameter{Factory: fp, Constructor: assisted[ci]})
	}
	return out, nil
}
