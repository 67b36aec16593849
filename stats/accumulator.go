// Package stats implements the statistics-pass variant of the streaming
// indexer (§4.5): identical framing and header decoding, but payload
// bytes are always skipped and the extended header's classification is
// folded into three per-id histograms instead of being rendered as
// output lines.
package stats

import (
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/internal/collision"
	"github.com/dltview/dltidx/internal/hash"
)

// Entry pairs an id with its accumulated level distribution.
type Entry struct {
	ID           string
	Distribution format.LevelDistribution
}

// table interns ids behind an xxhash key (mirroring the teacher's
// hash-based metric-name deduplication in blob) so that accumulating a
// million-message capture's handful of repeated 4-byte ids does a map
// lookup on a uint64, not a fresh string comparison/allocation per
// message.
type table struct {
	order   []uint64
	ids     map[uint64]string
	dist     map[uint64]*format.LevelDistribution
	tracker  *collision.Tracker
}

func newTable() *table {
	return &table{
		ids:     make(map[uint64]string),
		dist:    make(map[uint64]*format.LevelDistribution),
		tracker: collision.NewTracker(),
	}
}

// add folds one classification into id's bucket. key is the id's xxhash;
// on the vanishingly rare case two distinct ids hash to the same key, the
// second id is re-keyed on hash(id, id) so it gets its own bucket instead
// of silently merging into the first id's counts.
func (t *table) add(id string, mt format.MessageMajorType, level format.LogLevel, recognized bool) {
	key := hash.ID(id)
	if !t.tracker.Claim(key, id) {
		key = hash.ID(id + "\x00" + id)
		t.tracker.Claim(key, id)
	}
	d, ok := t.dist[key]
	if !ok {
		d = &format.LevelDistribution{}
		t.dist[key] = d
		t.ids[key] = id
		t.order = append(t.order, key)
	}
	d.Add(mt, level, recognized)
}

func (t *table) entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, Entry{ID: t.ids[key], Distribution: *t.dist[key]})
	}
	return out
}

// Accumulator folds (app_id, context_id, ecu_id, level) classifications
// into three insertion-ordered histograms plus a contained_non_verbose
// flag (§3 StatisticInfo).
type Accumulator struct {
	appIDs     *table
	contextIDs *table
	ecuIDs     *table

	containedNonVerbose bool
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		appIDs:     newTable(),
		contextIDs: newTable(),
		ecuIDs:     newTable(),
	}
}

// Add folds one message's classification into the histograms. verbose is
// the extended header's raw verbose bit: per scenario S6, any message
// carrying verbose=0 marks the run as having contained a non-verbose
// message, independent of major type.
func (a *Accumulator) Add(ecuID, appID, contextID string, mt format.MessageMajorType, level format.LogLevel, recognized bool, verbose bool) {
	a.appIDs.add(appID, mt, level, recognized)
	a.contextIDs.add(contextID, mt, level, recognized)
	a.ecuIDs.add(ecuID, mt, level, recognized)
	if !verbose {
		a.containedNonVerbose = true
	}
}

// AppIDs returns the application-id histogram in first-seen order.
func (a *Accumulator) AppIDs() []Entry { return a.appIDs.entries() }

// ContextIDs returns the context-id histogram in first-seen order.
func (a *Accumulator) ContextIDs() []Entry { return a.contextIDs.entries() }

// EcuIDs returns the ECU-id histogram in first-seen order.
func (a *Accumulator) EcuIDs() []Entry { return a.ecuIDs.entries() }

// ContainedNonVerbose reports whether any accumulated message had its
// verbose bit unset.
func (a *Accumulator) ContainedNonVerbose() bool { return a.containedNonVerbose }
