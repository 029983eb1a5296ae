package filters

import (
	"reflect"
	"testing"
)

var wideSample = [][]string{
	{"#country", "#indicator+header", "#indicator+value", "#indicator+header", "#indicator+value"},
	{"Kenya", "population", "1000", "area", "250"},
	{"Chad", "population", "800", "area", "400"},
}

func TestExplodeWideToLong(t *testing.T) {
	f := &Explode{Source: dataset(t, wideSample)}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#country", "#indicator", "#indicator"}) {
		t.Fatalf("tags: got %#v", got)
	}
	want := [][]string{
		{"Kenya", "population", "1000"},
		{"Kenya", "area", "250"},
		{"Chad", "population", "800"},
		{"Chad", "area", "400"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestExplodeDuplicateLabelFirstGroupWins(t *testing.T) {
	cells := [][]string{
		{"#country", "#indicator+header", "#indicator+value", "#indicator+header", "#indicator+value"},
		{"Kenya", "population", "1000", "population", "999"},
	}
	f := &Explode{Source: dataset(t, cells)}
	want := [][]string{
		{"Kenya", "population", "1000"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestExplodePassthroughWithoutGroups(t *testing.T) {
	f := &Explode{Source: dataset(t, sample)}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#org", "#sector", "#affected"}) {
		t.Fatalf("tags: got %#v", got)
	}
	if got := values(t, f); len(got) != 3 {
		t.Fatalf("got %d rows want 3", len(got))
	}
}

func TestExplodeCustomAttributes(t *testing.T) {
	cells := [][]string{
		{"#country", "#indicator+label", "#indicator+amount"},
		{"Kenya", "population", "1000"},
	}
	f := &Explode{
		Source:          dataset(t, cells),
		HeaderAttribute: "label",
		ValueAttribute:  "amount",
	}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#country", "#indicator", "#indicator"}) {
		t.Fatalf("tags: got %#v", got)
	}
	want := [][]string{{"Kenya", "population", "1000"}}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}
