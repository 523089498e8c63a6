package asyncprops

import (
	"fmt"
	"reflect"

	"github.com/pthm/asyncprops/lib/encoding"
)

// ParamsEqual decides whether two resolved param sets are the same for
// pivot purposes.
type ParamsEqual func(a, b Params) bool

// Names accepted by ParamsEqualByName and the params_equality config key.
const (
	EqualityDeep      = "deep"
	EqualityCanonical = "canonical"
)

// DeepEqual is the default comparator: deep structural equality of the two
// maps. A nil map equals an empty one, but a key holding nil differs from
// an absent key.
func DeepEqual(a, b Params) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(a), map[string]any(b))
}

// CanonicalEqual compares params by their canonical msgpack form, so values
// that are numerically equal but typed differently (int vs int64 vs a
// whole float64 from JSON) compare equal.
func CanonicalEqual(a, b Params) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return encoding.Equal(map[string]any(a), map[string]any(b))
}

// ParamsEqualByName resolves a comparator from its config name.
// The empty name selects DeepEqual.
func ParamsEqualByName(name string) (ParamsEqual, error) {
	switch name {
	case "", EqualityDeep:
		return DeepEqual, nil
	case EqualityCanonical:
		return CanonicalEqual, nil
	}
	return nil, fmt.Errorf("asyncprops: unknown params equality %q", name)
}

// paramsKey returns the dedupe key for a (route, params) pair.
func paramsKey(id RouteID, p Params) (string, error) {
	if len(p) == 0 {
		return string(id) + "#", nil
	}
	fp, err := encoding.Fingerprint(map[string]any(p))
	if err != nil {
		return "", err
	}
	return string(id) + "#" + fp, nil
}
