package allocation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/warehouse-qr-system/internal/model"
)

func TestDeriveAreaCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"section with space", "Section E", "E"},
		{"area with space", "Area E", "E"},
		{"zone with hyphen", "Zone-E", "E"},
		{"section with hyphen", "Section-F", "F"},
		{"lowercase prefix", "section b", "b"},
		{"bare letter", "F", "F"},
		{"no recognised prefix", "Dock", "Dock"},
		{"multi word remainder takes last token", "North Wing B", "B"},
		{"prefix then multi word", "Section North B", "B"},
		{"surrounding whitespace", "  Section G  ", "G"},
		{"numeric remainder", "Zone 12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveAreaCode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveAreaCodeAgreesAcrossPrefixes(t *testing.T) {
	for _, a := range []string{"E", "B2", "Mezzanine"} {
		want, err := DeriveAreaCode(a)
		require.NoError(t, err)
		for _, in := range []string{"Section " + a, "Area " + a, "Zone-" + a} {
			got, err := DeriveAreaCode(in)
			require.NoError(t, err)
			assert.Equal(t, want, got, "input %q", in)
		}
	}
}

func TestDeriveAreaCodeEmptyRemainder(t *testing.T) {
	for _, in := range []string{"Section", "Zone-", "Area  ", ""} {
		_, err := DeriveAreaCode(in)
		assert.ErrorIs(t, err, ErrEmptyAreaCode, "input %q", in)
	}
}

func TestNextSlotNumbers(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		count    int
		want     []int
	}{
		{"empty area starts at 1", nil, 3, []int{1, 2, 3}},
		{"continues after maximum", []string{"E-1", "E-2", "E-6"}, 2, []int{7, 8}},
		{"gaps are not reused", []string{"E-9"}, 1, []int{10}},
		{"ids without numeric suffix count as zero", []string{"E-alpha", "dock"}, 2, []int{1, 2}},
		{"mixed suffixes", []string{"E-3", "legacy", "E-11"}, 1, []int{12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextSlotNumbers(tt.existing, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextSlotNumbersRejectsBadCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		_, err := NextSlotNumbers([]string{"E-1"}, count)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
}

func TestNextSlotNumbersStrictlyGreaterAndDistinct(t *testing.T) {
	existing := []string{"E-4", "E-17", "E-2"}
	got, err := NextSlotNumbers(existing, 5)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, n := range got {
		assert.Greater(t, n, 17)
		assert.False(t, seen[n], "duplicate number %d", n)
		seen[n] = true
	}
}

func TestNewSlots(t *testing.T) {
	slots, err := NewSlots("Section E", []string{"E-1", "E-2"}, 3)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, "Section E", s.Area)
		assert.Equal(t, fmt.Sprintf("E-%d", i+3), s.SlotID)
		assert.True(t, s.IsEmpty)
		assert.Nil(t, s.ProductID)
	}
}

func TestNewSlotsRejectsEmptyCode(t *testing.T) {
	_, err := NewSlots("Section", nil, 2)
	assert.ErrorIs(t, err, ErrEmptyAreaCode)
}

func occupied(area, slotID, productID string) model.Slot {
	return model.Slot{Area: area, SlotID: slotID, IsEmpty: false, ProductID: &productID}
}

func empty(area, slotID string) model.Slot {
	return model.Slot{Area: area, SlotID: slotID, IsEmpty: true}
}

func TestChooseAutomatic(t *testing.T) {
	t.Run("first empty wins in given order", func(t *testing.T) {
		slots := []model.Slot{
			occupied("Section A", "A-1", "P9"),
			empty("Section A", "A-2"),
			empty("Section B", "B-1"),
		}
		got, err := ChooseAutomatic(slots)
		require.NoError(t, err)
		assert.Equal(t, "A-2", got.SlotID)
	})
	t.Run("single empty record is returned", func(t *testing.T) {
		slots := []model.Slot{
			occupied("Section A", "A-1", "P1"),
			empty("Section B", "B-3"),
			occupied("Section B", "B-4", "P2"),
		}
		got, err := ChooseAutomatic(slots)
		require.NoError(t, err)
		assert.Equal(t, "B-3", got.SlotID)
	})
	t.Run("no empty slot", func(t *testing.T) {
		slots := []model.Slot{occupied("Section A", "A-1", "P1")}
		_, err := ChooseAutomatic(slots)
		assert.ErrorIs(t, err, ErrNoEmptySlot)
	})
}

func TestChooseSlot(t *testing.T) {
	slots := []model.Slot{
		empty("Section A", "A-1"),
		occupied("Section A", "A-2", "P5"),
	}
	t.Run("empty target is chosen", func(t *testing.T) {
		got, err := ChooseSlot(slots, "A-1")
		require.NoError(t, err)
		assert.Equal(t, "A-1", got.SlotID)
	})
	t.Run("occupied target", func(t *testing.T) {
		_, err := ChooseSlot(slots, "A-2")
		assert.ErrorIs(t, err, ErrSlotOccupied)
	})
	t.Run("unknown target", func(t *testing.T) {
		_, err := ChooseSlot(slots, "Z-9")
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestOccupyReleaseRoundTrip(t *testing.T) {
	s := empty("Section A", "A-1")

	Occupy(&s, "P42")
	assert.False(t, s.IsEmpty)
	require.NotNil(t, s.ProductID)
	assert.Equal(t, "P42", *s.ProductID)

	Release(&s)
	assert.True(t, s.IsEmpty)
	assert.Nil(t, s.ProductID)

	// Releasing an already-empty slot stays a no-op.
	Release(&s)
	assert.True(t, s.IsEmpty)
	assert.Nil(t, s.ProductID)
}

func TestCanDeleteArea(t *testing.T) {
	t.Run("rejected while a slot is occupied", func(t *testing.T) {
		slots := []model.Slot{
			empty("Section A", "A-1"),
			occupied("Section A", "A-2", "P1"),
			occupied("Section B", "B-1", "P2"),
		}
		assert.ErrorIs(t, CanDeleteArea(slots, "Section A"), ErrAreaOccupied)
	})
	t.Run("accepted when all slots are empty", func(t *testing.T) {
		slots := []model.Slot{
			empty("Section A", "A-1"),
			occupied("Section B", "B-1", "P2"), // other areas do not block
		}
		assert.NoError(t, CanDeleteArea(slots, "Section A"))
	})
	t.Run("accepted for area with no slots", func(t *testing.T) {
		assert.NoError(t, CanDeleteArea(nil, "Section Z"))
	})
}

func TestCanDeleteSlot(t *testing.T) {
	s := occupied("Section A", "A-1", "P1")
	assert.ErrorIs(t, CanDeleteSlot(&s), ErrSlotOccupied)

	e := empty("Section A", "A-2")
	assert.NoError(t, CanDeleteSlot(&e))
}

// TestSectionELifecycle walks the full allocation story for one area:
// create six slots, auto-store, reject double allocation, release and
// extend the area without reusing identifiers.
func TestSectionELifecycle(t *testing.T) {
	slots, err := NewSlots("Section E", nil, 6)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	ids := make([]string, 0, len(slots))
	for i, s := range slots {
		assert.Equal(t, fmt.Sprintf("E-%d", i+1), s.SlotID)
		assert.True(t, s.IsEmpty)
		ids = append(ids, s.SlotID)
	}

	// Automatic allocation for P1 lands in E-1.
	chosen, err := ChooseAutomatic(slots)
	require.NoError(t, err)
	assert.Equal(t, "E-1", chosen.SlotID)
	Occupy(chosen, "P1")

	// A custom allocation aimed at the same slot is rejected.
	_, err = ChooseSlot(slots, "E-1")
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// Retrieval frees E-1 again.
	Release(chosen)
	got, err := ChooseSlot(slots, "E-1")
	require.NoError(t, err)
	assert.Equal(t, "E-1", got.SlotID)

	// Extending the area continues after the highest number ever
	// issued, regardless of E-1's occupancy history.
	more, err := NewSlots("Section E", ids, 2)
	require.NoError(t, err)
	require.Len(t, more, 2)
	assert.Equal(t, "E-7", more[0].SlotID)
	assert.Equal(t, "E-8", more[1].SlotID)
}
