package inputlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsCaseInsensitive(t *testing.T) {
	l := New()
	assert.True(t, l.Add("a.pdf"))
	assert.False(t, l.Add("A.PDF"))
	assert.False(t, l.Add("a.pdf"))
	assert.False(t, l.Add("   "))
	assert.Equal(t, []string{"a.pdf"}, l.Snapshot())
}

func TestAddPathsAndSplit(t *testing.T) {
	l := New("x.pdf")
	n := l.AddPaths(SplitPaths("a.pdf; b.pdf;;X.pdf ")...)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"x.pdf", "a.pdf", "b.pdf"}, l.Snapshot())
}

func TestNewDropsDuplicates(t *testing.T) {
	l := New("a.pdf", "b.pdf", "A.pdf", "")
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, l.Snapshot())
}

func TestRemove(t *testing.T) {
	l := New("a.pdf", "b.pdf", "c.pdf")
	assert.True(t, l.Remove("B.pdf"))
	assert.False(t, l.Remove("missing.pdf"))
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, l.Snapshot())
}

func TestRemoveSelected(t *testing.T) {
	l := New("a.pdf", "b.pdf", "c.pdf", "d.pdf")
	selection := []string{"d.pdf", "a.pdf", "zz.pdf"}
	assert.Equal(t, 2, l.RemoveSelected(selection))
	assert.Equal(t, []string{"b.pdf", "c.pdf"}, l.Snapshot())
	assert.Equal(t, []string{"d.pdf", "a.pdf", "zz.pdf"}, selection)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"to front", 2, 0, []string{"c", "a", "b", "d"}},
		{"same slot", 2, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("a", "b", "c", "d")
			assert.True(t, l.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, l.Snapshot())
			assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, l.Snapshot())
		})
	}
}

func TestMoveOutOfRange(t *testing.T) {
	l := New("a", "b")
	assert.False(t, l.Move(-1, 0))
	assert.False(t, l.Move(0, 2))
	assert.Equal(t, []string{"a", "b"}, l.Snapshot())
}

func TestMoveNotifiesOnceWithConsistentState(t *testing.T) {
	l := New("a", "b", "c", "d", "e")
	var changes []Change
	var seen [][]string
	l.Subscribe(func(c Change) {
		changes = append(changes, c)
		seen = append(seen, l.Snapshot())
	})

	require.True(t, l.Move(1, 3))
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Kind: Moved, Path: "b", From: 1, To: 3, Len: 5}, changes[0])
	assert.Equal(t, []string{"a", "c", "d", "b", "e"}, seen[0])
}

func TestSubscribeCarriesLength(t *testing.T) {
	l := New()
	canMerge := false
	cancel := l.Subscribe(func(c Change) { canMerge = c.Len > 1 })

	l.Add("a.pdf")
	assert.False(t, canMerge)
	l.Add("b.pdf")
	assert.True(t, canMerge)
	l.Remove("a.pdf")
	assert.False(t, canMerge)

	cancel()
	l.Add("c.pdf")
	assert.False(t, canMerge)
}

func TestClearAndReplace(t *testing.T) {
	l := New("a.pdf", "b.pdf")
	var kinds []ChangeKind
	l.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	l.Replace([]string{"c.pdf", "C.PDF", "d.pdf"})
	assert.Equal(t, []string{"c.pdf", "d.pdf"}, l.Snapshot())
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, []ChangeKind{Reset, Reset}, kinds)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New("a.pdf", "b.pdf")
	snap := l.Snapshot()
	l.Move(0, 1)
	l.Add("c.pdf")
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, snap)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "doc.PDF")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	l := New()
	assert.NoError(t, l.Validate(pdf))
	assert.ErrorIs(t, l.Validate(" "), ErrEmptyPath)
	assert.ErrorIs(t, l.Validate(txt), ErrNotPDF)
	assert.ErrorIs(t, l.Validate(filepath.Join(dir, "gone.pdf")), ErrNotFound)

	l.Add(pdf)
	assert.ErrorIs(t, l.Validate(pdf), ErrDuplicate)
}
