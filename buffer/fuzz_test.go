package buffer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// randomText returns n bytes drawn from a small alphabet heavily weighted
// toward '\n', so line splits happen often enough to exercise the
// per-piece lineStarts machinery.
func randomText(r *rand.Rand, n int) string {
	const alphabet = "abc\n\n def\nghi\n"
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}

// checkInvariants compares pt against the reference string built
// alongside it: content, line count, piece non-emptiness, line content,
// and, at sampled offsets, offset/position round-trips and substrings must
// all agree.
func checkInvariants(t *testing.T, pt *PieceTable, ref string, step int) {
	t.Helper()

	require.NoErrorf(t, pt.Validate(), "step %d: invariant violation", step)
	require.Equalf(t, ref, pt.GetLinesContent(), "step %d: content mismatch", step)
	require.Equalf(t, 1+strings.Count(ref, "\n"), pt.GetLineCount(), "step %d: line count mismatch", step)

	for _, p := range pt.pieces {
		require.Greaterf(t, p.length, 0, "step %d: zero-length piece", step)
	}

	stride := max(1, len(ref)/23+1)
	for o := 0; o <= len(ref); o += stride {
		require.Equalf(t, o, pt.GetOffsetAt(pt.GetPositionAt(o)), "step %d: offset/position round-trip failed at %d", step, o)
		n := min(stride, len(ref)-o)
		require.Equalf(t, ref[o:o+n], pt.Substr(o, n), "step %d: substr(%d, %d) mismatch", step, o, n)
	}

	lines := strings.Split(ref, "\n")
	for i, want := range lines {
		require.Equalf(t, want, pt.GetLineContent(i+1), "step %d: line %d mismatch", step, i+1)
	}
}

// TestFuzzPieceTable applies ten thousand uniformly-chosen insert/delete
// operations in lockstep to a PieceTable and a reference string, checking
// every invariant after each step. The seed is fixed so failures
// reproduce deterministically.
func TestFuzzPieceTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping fuzz pass in -short mode")
	}

	r := rand.New(rand.NewSource(0xC0FFEE))
	ref := randomText(r, 1024)
	pt := New(ref, WithInvariantChecks())

	checkInvariants(t, pt, ref, 0)

	const steps = 10000
	for step := 1; step <= steps; step++ {
		if r.Intn(2) == 0 || len(ref) == 0 {
			offset := r.Intn(len(ref) + 1)
			value := randomText(r, 1+r.Intn(8))

			require.NoErrorf(t, pt.Insert(value, offset), "step %d: Insert(%q, %d)", step, value, offset)
			ref = ref[:offset] + value + ref[offset:]
		} else {
			offset := r.Intn(len(ref))
			count := r.Intn(len(ref) - offset + 1)

			pt.Delete(offset, count)
			ref = ref[:offset] + ref[offset+count:]
		}

		checkInvariants(t, pt, ref, step)
	}
}

// TestFuzzPieceTableNoOps specifically hammers the boundary cases S6
// would otherwise only hit by chance: inserting at offset 0 and at the
// document end, and zero-length inserts and deletes.
func TestFuzzPieceTableNoOps(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	ref := ""
	pt := New(ref, WithInvariantChecks())

	for step := 1; step <= 500; step++ {
		switch r.Intn(4) {
		case 0:
			require.NoError(t, pt.Insert("", r.Intn(len(ref)+1)))
		case 1:
			if len(ref) > 0 {
				pt.Delete(r.Intn(len(ref)), 0)
			}
		case 2:
			value := randomText(r, 1+r.Intn(3))
			require.NoError(t, pt.Insert(value, 0))
			ref = value + ref
		default:
			value := randomText(r, 1+r.Intn(3))
			require.NoError(t, pt.Insert(value, len(ref)))
			ref = ref + value
		}
		checkInvariants(t, pt, ref, step)
	}
}
