package normalize

import (
	"fmt"
	"sort"

	"github.com/simpilot/assetlink/pkg/constants"
	"github.com/simpilot/assetlink/pkg/errors"
)

// KeyFuncs selects the normalizers an indexing run keys on. Indexer and
// matcher must use the same KeyFuncs or lookups silently miss.
type KeyFuncs struct {
	Mode    string
	Station Normalizer
	Area    Normalizer
	Line    Normalizer
	Name    Normalizer
}

// Default keys on the pure-numeric station variant and the plain area
// variant.
func Default() KeyFuncs {
	return KeyFuncs{
		Mode:    constants.KeyModeDefault,
		Station: Station,
		Area:    Area,
		Line:    Line,
		Name:    AssetName,
	}
}

// Canonical keys on the digit-run station variant and the expanding area
// variant, so "CA008" meets "CA8" and "RR UN" meets "REAR UNIT".
func Canonical() KeyFuncs {
	return KeyFuncs{
		Mode:    constants.KeyModeCanonical,
		Station: CanonicalStation,
		Area:    CanonicalArea,
		Line:    Line,
		Name:    AssetName,
	}
}

// ForMode returns the KeyFuncs for a key mode name. Empty selects Default.
func ForMode(mode string) (KeyFuncs, error) {
	switch mode {
	case "", constants.KeyModeDefault:
		return Default(), nil
	case constants.KeyModeCanonical:
		return Canonical(), nil
	default:
		return KeyFuncs{}, errors.NewValidationError("key_mode", mode,
			fmt.Sprintf("must be %q or %q", constants.KeyModeDefault, constants.KeyModeCanonical))
	}
}

// registry maps normalizer names to functions for the CLI.
var registry = map[string]Normalizer{
	"station":           Station,
	"station-canonical": CanonicalStation,
	"area":              Area,
	"area-canonical":    CanonicalArea,
	"line":              Line,
	"asset":             AssetName,
	"key":               Key,
}

// Lookup returns the named normalizer.
func Lookup(name string) (Normalizer, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "normalizer", ID: name}
	}
	return fn, nil
}

// Available lists registered normalizer names in sorted order.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variants applies every normalizer relevant to kind ("station", "area",
// "line" or "asset") and returns name -> key.
func Variants(kind, value string) (map[string]string, error) {
	var names []string
	switch kind {
	case "station":
		names = []string{"station", "station-canonical", "key"}
	case "area":
		names = []string{"area", "area-canonical", "key"}
	case "line":
		names = []string{"line", "key"}
	case "asset":
		names = []string{"asset", "key"}
	default:
		return nil, errors.NewValidationError("kind", kind, "must be station, area, line or asset")
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = registry[name](value)
	}
	return out, nil
}
