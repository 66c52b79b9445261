package evaluator

// Tone is the visual emphasis a renderer applies to a classification.
type Tone int

const (
	ToneNone Tone = iota
	ToneGreen
	ToneYellow
	ToneRed
	ToneGray
	ToneBlue
)

// String returns the string representation of the tone.
func (t Tone) String() string {
	switch t {
	case ToneGreen:
		return "green"
	case ToneYellow:
		return "yellow"
	case ToneRed:
		return "red"
	case ToneGray:
		return "gray"
	case ToneBlue:
		return "blue"
	default:
		return "none"
	}
}

// TimeClass buckets an execution time.
type TimeClass int

const (
	TimeFast     TimeClass = iota // < 100ms
	TimeModerate                  // [100ms, 500ms)
	TimeSlow                      // >= 500ms
)

// String returns the string representation of the time class.
func (c TimeClass) String() string {
	switch c {
	case TimeFast:
		return "fast"
	case TimeModerate:
		return "moderate"
	case TimeSlow:
		return "slow"
	default:
		return "unknown"
	}
}

// Tone returns the display tone of the time class.
func (c TimeClass) Tone() Tone {
	switch c {
	case TimeFast:
		return ToneGreen
	case TimeModerate:
		return ToneYellow
	default:
		return ToneRed
	}
}

// ScanClass buckets the ratio of rows returned to rows scanned.
type ScanClass int

const (
	ScanUnknown     ScanClass = iota // nothing scanned
	ScanEfficient                    // ratio > 0.5
	ScanModerate                     // 0.1 < ratio <= 0.5
	ScanInefficient                  // ratio <= 0.1
)

// String returns the string representation of the scan class.
func (c ScanClass) String() string {
	switch c {
	case ScanEfficient:
		return "efficient"
	case ScanModerate:
		return "moderate"
	case ScanInefficient:
		return "inefficient"
	default:
		return "unknown"
	}
}

// Tone returns the display tone of the scan class.
func (c ScanClass) Tone() Tone {
	switch c {
	case ScanEfficient:
		return ToneGreen
	case ScanModerate:
		return ToneYellow
	case ScanInefficient:
		return ToneRed
	default:
		return ToneGray
	}
}

// AccessClass buckets an EXPLAIN access type.
type AccessClass int

const (
	AccessNeutral    AccessClass = iota // unrecognized or absent
	AccessOptimal                       // system, const, eq_ref
	AccessAcceptable                    // ref, range, index
	AccessFullScan                      // ALL
)

// String returns the string representation of the access class.
func (c AccessClass) String() string {
	switch c {
	case AccessOptimal:
		return "optimal"
	case AccessAcceptable:
		return "acceptable"
	case AccessFullScan:
		return "full_scan"
	default:
		return "neutral"
	}
}

// Tone returns the display tone of the access class.
func (c AccessClass) Tone() Tone {
	switch c {
	case AccessOptimal:
		return ToneGreen
	case AccessAcceptable:
		return ToneYellow
	case AccessFullScan:
		return ToneRed
	default:
		return ToneNone
	}
}

// KeyUsage reports whether an EXPLAIN row chose an index.
type KeyUsage int

const (
	KeyNoIndex KeyUsage = iota
	KeyIndexed
)

// String returns the string representation of the key usage.
func (k KeyUsage) String() string {
	if k == KeyIndexed {
		return "indexed"
	}
	return "no_index"
}

// Tone returns the display tone of the key usage.
func (k KeyUsage) Tone() Tone {
	if k == KeyIndexed {
		return ToneNone
	}
	return ToneRed
}
