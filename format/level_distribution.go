package format

// LevelDistribution is the fixed eight-bucket histogram the statistics
// pass accumulates per id: the six log levels, a bucket for a recognized
// Log message whose level nibble didn't map to a known value, and a
// bucket for every non-Log major type (§3 "LevelDistribution").
type LevelDistribution struct {
	Fatal   uint64
	Error   uint64
	Warn    uint64
	Info    uint64
	Debug   uint64
	Verbose uint64
	Invalid uint64
	NonLog  uint64
}

// Add records one message's classification into the distribution. mt is
// the message's major type; level and recognized are only meaningful when
// mt == MajorLog.
func (d *LevelDistribution) Add(mt MessageMajorType, level LogLevel, recognized bool) {
	if mt != MajorLog {
		d.NonLog++
		return
	}
	if !recognized {
		d.Invalid++
		return
	}
	switch level {
	case LogFatal:
		d.Fatal++
	case LogError:
		d.Error++
	case LogWarn:
		d.Warn++
	case LogInfo:
		d.Info++
	case LogDebug:
		d.Debug++
	case LogVerbose:
		d.Verbose++
	default:
		d.Invalid++
	}
}

// Counts renders the distribution as the sparse "log_info":2 style map
// scenario S6 expects, omitting zero buckets.
func (d LevelDistribution) Counts() map[string]uint64 {
	m := make(map[string]uint64, 8)
	add := func(key string, n uint64) {
		if n > 0 {
			m[key] = n
		}
	}
	add("log_fatal", d.Fatal)
	add("log_error", d.Error)
	add("log_warn", d.Warn)
	add("log_info", d.Info)
	add("log_debug", d.Debug)
	add("log_verbose", d.Verbose)
	add("invalid", d.Invalid)
	add("non_log", d.NonLog)
	return m
}

// Total returns the sum of every bucket.
func (d LevelDistribution) Total() uint64 {
	return d.Fatal + d.Error + d.Warn + d.Info + d.Debug + d.Verbose + d.Invalid + d.NonLog
}
