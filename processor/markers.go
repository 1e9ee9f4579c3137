package processor

import "github.com/sghaida/assistfactory/symbol"

// Markers are the qualified annotation names the processor reads and writes.
type Markers struct {
	// Contributes is the class-level marker with boundType and scope arguments.
	Contributes string
	// Key is this library's parameter-level key marker.
	Key string

	// Host DI framework markers.
	Assisted        string
	AssistedInject  string
	AssistedFactory string
	Module          string
	Binds           string
	InstallIn       string

	// DefaultScope is used when the contributes marker omits scope.
	DefaultScope string
}

// Argument names on the markers.
const (
	ArgBoundType = "boundType"
	ArgScope     = "scope"
	ArgValue     = "value"
)

// DefaultMarkers targets Dagger/Hilt.
func DefaultMarkers() Markers {
	return Markers{
		Contributes:     "assistfactory.ContributesAssistedFactory",
		Key:             "assistfactory.AssistedKey",
		Assisted:        "dagger.assisted.Assisted",
		AssistedInject:  "dagger.assisted.AssistedInject",
		AssistedFactory: "dagger.assisted.AssistedFactory",
		Module:          "dagger.Module",
		Binds:           "dagger.Binds",
		InstallIn:       "dagger.hilt.InstallIn",
		DefaultScope:    symbol.DefaultScope,
	}
}

// withDefaults fills empty fields from DefaultMarkers.
func (m Markers) withDefaults() Markers {
	d := DefaultMarkers()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.Contributes, d.Contributes)
	fill(&m.Key, d.Key)
	fill(&m.Assisted, d.Assisted)
	fill(&m.AssistedInject, d.AssistedInject)
	fill(&m.AssistedFactory, d.AssistedFactory)
	fill(&m.Module, d.Module)
	fill(&m.Binds, d.Binds)
	fill(&m.InstallIn, d.InstallIn)
	fill(&m.DefaultScope, d.DefaultScope)
	return m
}
