package asyncprops

import (
	"testing"
)

func TestPivot(t *testing.T) {
	root := &Route{ID: "/"}
	list := &Route{ID: "/items"}
	item := &Route{ID: "/items/:id"}
	other := &Route{ID: "/other"}

	m := func(r *Route, p Params) Match { return Match{Route: r, Params: p} }

	tests := []struct {
		name string
		prev Chain
		next Chain
		want int
	}{
		{
			name: "empty previous chain reloads everything",
			prev: nil,
			next: Chain{m(root, nil), m(list, nil)},
			want: 0,
		},
		{
			name: "identical chains",
			prev: Chain{m(root, nil), m(item, Params{"id": "1"})},
			next: Chain{m(root, nil), m(item, Params{"id": "1"})},
			want: 2,
		},
		{
			name: "param change at leaf",
			prev: Chain{m(root, nil), m(item, Params{"id": "0"})},
			next: Chain{m(root, nil), m(item, Params{"id": "1"})},
			want: 1,
		},
		{
			name: "child appended",
			prev: Chain{m(root, nil)},
			next: Chain{m(root, nil), m(item, Params{"id": "0"})},
			want: 1,
		},
		{
			name: "child removed",
			prev: Chain{m(root, nil), m(item, Params{"id": "0"})},
			next: Chain{m(root, nil)},
			want: 1,
		},
		{
			name: "route changed with equal params",
			prev: Chain{m(root, nil), m(list, Params{"q": "x"})},
			next: Chain{m(root, nil), m(other, Params{"q": "x"})},
			want: 1,
		},
		{
			name: "root param change reloads descendants",
			prev: Chain{m(root, Params{"lang": "en"}), m(list, nil)},
			next: Chain{m(root, Params{"lang": "de"}), m(list, nil)},
			want: 0,
		},
		{
			name: "nil and empty params are equal",
			prev: Chain{m(root, nil)},
			next: Chain{m(root, Params{})},
			want: 1,
		},
		{
			name: "extra param key counts as change",
			prev: Chain{m(item, Params{"id": "1"})},
			next: Chain{m(item, Params{"id": "1", "tab": "info"})},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pivot(tt.prev, tt.next, nil); got != tt.want {
				t.Errorf("Pivot() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPivot_SameIdentityDifferentPointers(t *testing.T) {
	a := &Route{ID: "/"}
	b := &Route{ID: "/"}
	prev := Chain{{Route: a}}
	next := Chain{{Route: b}}

	if got := Pivot(prev, next, nil); got != 1 {
		t.Errorf("Pivot() = %d, want 1 (identity is the RouteID)", got)
	}
}

func TestPivot_SharedPrefixLowerBound(t *testing.T) {
	routes := []*Route{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	full := make(Chain, len(routes))
	for i, r := range routes {
		full[i] = Match{Route: r, Params: Params{"depth": i}}
	}

	for shared := 0; shared <= len(full); shared++ {
		next := append(Chain{}, full[:shared]...)
		next = append(next, Match{Route: &Route{ID: "z"}})
		if got := Pivot(full, next, nil); got < shared {
			t.Errorf("shared=%d: Pivot() = %d, want >= %d", shared, got, shared)
		}
	}
}

func TestPivot_Comparator(t *testing.T) {
	r := &Route{ID: "/:index"}
	prev := Chain{{Route: r, Params: Params{"index": 1}}}
	next := Chain{{Route: r, Params: Params{"index": float64(1)}}}

	if got := Pivot(prev, next, DeepEqual); got != 0 {
		t.Errorf("deep: Pivot() = %d, want 0", got)
	}
	if got := Pivot(prev, next, CanonicalEqual); got != 1 {
		t.Errorf("canonical: Pivot() = %d, want 1", got)
	}
}

func TestDiffChains(t *testing.T) {
	root := &Route{ID: "/"}
	item := &Route{ID: "/:index"}
	prev := Chain{{Route: root}, {Route: item, Params: Params{"index": "0"}}}
	next := Chain{{Route: root}, {Route: item, Params: Params{"index": "1"}}}

	d := DiffChains(prev, next, nil)
	if d.Pivot != 1 {
		t.Errorf("Pivot = %d, want 1", d.Pivot)
	}
	if len(d.Reused) != 1 || d.Reused[0] != "/" {
		t.Errorf("Reused = %v, want [/]", d.Reused)
	}
	if len(d.Reload) != 1 || d.Reload[0] != "/:index" {
		t.Errorf("Reload = %v, want [/:index]", d.Reload)
	}
}

func TestParamsEqualByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{EqualityDeep, false},
		{EqualityCanonical, false},
		{"shallow", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := ParamsEqualByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParamsEqualByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && eq == nil {
				t.Error("expected comparator")
			}
		})
	}
}

func TestDeepEqual(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Params
		expect bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs empty", nil, Params{}, true},
		{"nested equal", Params{"q": map[string]any{"x": []int{1}}}, Params{"q": map[string]any{"x": []int{1}}}, true},
		{"nested differ", Params{"q": map[string]any{"x": []int{1}}}, Params{"q": map[string]any{"x": []int{2}}}, false},
		{"nil value vs missing", Params{"a": nil}, Params{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeepEqual(tt.a, tt.b); got != tt.expect {
				t.Errorf("DeepEqual() = %v, want %v", got, tt.expect)
			}
		})
	}
}
