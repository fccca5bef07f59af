package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseProfileKey tests profile key parsing
func TestParseProfileKey(t *testing.T) {
	tests := []struct {
		input    string
		expected ProfileKey
		hasError bool
	}{
		{"sidebar", ProfileKey("sidebar"), false},
		{"  Zero-Based ", ProfileKey("zero-based"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseProfileKey(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestComputeDatasetHashIsOrderSensitive(t *testing.T) {
	header := []string{"a", "b"}
	h1 := ComputeDatasetHash(header, [][]float64{{1, 2}, {3, 4}})
	h2 := ComputeDatasetHash(header, [][]float64{{1, 2}, {3, 4}})
	h3 := ComputeDatasetHash(header, [][]float64{{3, 4}, {1, 2}})

	if h1 != h2 {
		t.Errorf("Expected equal hashes for equal tables, got %s and %s", h1, h2)
	}
	if h1 == h3 {
		t.Error("Expected different hashes for reordered rows")
	}
	if len(Hash(h1).Short()) != 12 {
		t.Errorf("Expected 12-char short hash, got %q", Hash(h1).Short())
	}
}
