// Package filter implements the four-predicate filter gate applied
// between header and payload decoding (§4.5): minimum log level, and
// allow-lists for application id, context id, and ECU id. Any predicate
// that the message fails drops it silently — filter rejection is not an
// error (§7).
package filter

import (
	"github.com/dltview/dltidx/format"
)

// Config is the filter gate's configuration. A nil/zero-length allow-list
// means "no restriction on this dimension"; a nil MinLogLevel means "no
// level floor".
type Config struct {
	MinLogLevel *format.LogLevel
	AppIDs      []string
	ContextIDs  []string
	EcuIDs      []string
}

// Gate is the compiled form of Config, with allow-lists turned into sets
// for O(1) membership tests.
type Gate struct {
	minLogLevel *format.LogLevel
	appIDs      map[string]struct{}
	contextIDs  map[string]struct{}
	ecuIDs      map[string]struct{}
}

// New compiles cfg into a Gate. A Gate built from a zero-value Config
// (the "identity filter") accepts everything, satisfying the filter
// transparency invariant (§8.5).
func New(cfg Config) *Gate {
	return &Gate{
		minLogLevel: cfg.MinLogLevel,
		appIDs:      toSet(cfg.AppIDs),
		contextIDs:  toSet(cfg.ContextIDs),
		ecuIDs:      toSet(cfg.EcuIDs),
	}
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func member(set map[string]struct{}, id string) bool {
	if set == nil {
		return true
	}
	_, ok := set[id]
	return ok
}

// Allow reports whether a message with the given ecu/app/context ids and
// message classification passes all four predicates. MinLogLevel only
// constrains Log-major messages; every other major type is exempt from
// the level predicate (there is no level to compare).
func (g *Gate) Allow(ecuID, appID, contextID string, mt format.MessageMajorType, level format.LogLevel) bool {
	if !member(g.ecuIDs, ecuID) {
		return false
	}
	if !member(g.appIDs, appID) {
		return false
	}
	if !member(g.contextIDs, contextID) {
		return false
	}
	if g.minLogLevel != nil && mt == format.MajorLog && level > *g.minLogLevel {
		return false
	}
	return true
}
