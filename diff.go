package asyncprops

// Pivot returns the shallowest chain position whose data must be reloaded
// when moving from prev to next.
//
// The pivot is the first depth where the route identity differs or, for the
// same route, the params differ under eq. When one chain is a prefix of the
// other the pivot is the length of the shorter one. An empty prev always
// yields 0. A nil eq uses DeepEqual.
func Pivot(prev, next Chain, eq ParamsEqual) int {
	if eq == nil {
		eq = DeepEqual
	}
	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		// A changed route forces reload regardless of params.
		if prev[i].ID() != next[i].ID() {
			return i
		}
		if !eq(prev[i].Params, next[i].Params) {
			return i
		}
	}
	return n
}

// Diff describes how a navigation partitions the new chain.
type Diff struct {
	Pivot  int
	Reused []RouteID // positions below the pivot, data kept
	Reload []RouteID // positions from the pivot to the leaf
}

// DiffChains computes the pivot and the resulting partition of next.
func DiffChains(prev, next Chain, eq ParamsEqual) Diff {
	p := Pivot(prev, next, eq)
	ids := next.IDs()
	return Diff{
		Pivot:  p,
		Reused: ids[:p],
		Reload: ids[p:],
	}
}
