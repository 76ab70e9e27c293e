package record

import (
	"fmt"
	"reflect"
	"testing"
)

func makeDataset(n int) Dataset {
	ds := make(Dataset, n)
	for i := range ds {
		ds[i] = Record{Name: fmt.Sprintf("c%d", i), Valuation: float64(i)}
	}
	return ds
}

func TestDownsampleIdentityUnderCap(t *testing.T) {
	ds := makeDataset(10)
	got := Downsample(ds, 10)
	if !reflect.DeepEqual(got, ds) {
		t.Error("Downsample must return the dataset unchanged when len <= cap")
	}
	got = Downsample(ds, 0)
	if !reflect.DeepEqual(got, ds) {
		t.Error("Downsample with cap <= 0 must be the identity")
	}
}

func TestDownsampleExactCap(t *testing.T) {
	got := Downsample(makeDataset(500), 100)
	if len(got) != 100 {
		t.Fatalf("Downsample returned %d records, want 100", len(got))
	}
}

func TestDownsampleDeterministic(t *testing.T) {
	ds := makeDataset(500)
	a := Downsample(ds, 100)
	b := Downsample(ds, 100)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated Downsample calls with identical input must pick the same subset")
	}
}

func TestDownsampleIdempotent(t *testing.T) {
	ds := makeDataset(500)
	once := Downsample(ds, 100)
	twice := Downsample(once, 100)
	if !reflect.DeepEqual(once, twice) {
		t.Error("Downsample(Downsample(ds, cap), cap) must equal Downsample(ds, cap)")
	}
}

func TestDownsamplePreservesOrder(t *testing.T) {
	ds := makeDataset(500)
	got := Downsample(ds, 50)
	prev := -1.0
	for _, r := range got {
		if r.Valuation <= prev {
			t.Fatalf("surviving records out of original order: %v after %v", r.Valuation, prev)
		}
		prev = r.Valuation
	}
}

func TestDownsampleNoDuplicates(t *testing.T) {
	got := Downsample(makeDataset(300), 200)
	seen := make(map[string]bool, len(got))
	for _, r := range got {
		if seen[r.Name] {
			t.Fatalf("record %s sampled twice", r.Name)
		}
		seen[r.Name] = true
	}
}
