package ferry

// Kind is the semantic category of a host value for serialization purposes.
// It is a pure classification tag and owns nothing.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNone
	KindBool
	KindInt
	KindFloat
	KindText
	KindBytes
	KindSequence
	KindTuple
	KindMapping
	KindSet
	KindFrozenSet
	KindDateTime // civil.DateTime, wall clock without zone
	KindDate     // civil.Date
	KindTime     // civil.Time
	KindDuration
	KindRecord

	// Domain kinds. Each renders to a canonical text form.
	KindIPAddr
	KindIPNetwork
	KindSocketAddr
	KindURL
	KindHTTPStatus
	KindUUID
	KindULID
	KindTimestamp
	KindTimeZone
	KindHeaders
	KindTextMarshaler

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:       "unknown",
	KindNone:          "none",
	KindBool:          "bool",
	KindInt:           "int",
	KindFloat:         "float",
	KindText:          "text",
	KindBytes:         "bytes",
	KindSequence:      "sequence",
	KindTuple:         "tuple",
	KindMapping:       "mapping",
	KindSet:           "set",
	KindFrozenSet:     "frozenset",
	KindDateTime:      "datetime",
	KindDate:          "date",
	KindTime:          "time",
	KindDuration:      "duration",
	KindRecord:        "record",
	KindIPAddr:        "ipaddr",
	KindIPNetwork:     "ipnetwork",
	KindSocketAddr:    "socketaddr",
	KindURL:           "url",
	KindHTTPStatus:    "httpstatus",
	KindUUID:          "uuid",
	KindULID:          "ulid",
	KindTimestamp:     "timestamp",
	KindTimeZone:      "timezone",
	KindHeaders:       "headers",
	KindTextMarshaler: "text-marshaler",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// IsContainer reports whether values of this kind recurse into nested values
// and are therefore subject to the depth limit.
func (k Kind) IsContainer() bool {
	switch k {
	case KindSequence, KindTuple, KindMapping, KindSet, KindFrozenSet, KindRecord:
		return true
	}
	return false
}

// IsDomain reports whether the kind belongs to the domain family
// (including the temporal kinds backed by civil and time types).
func (k Kind) IsDomain() bool {
	switch k {
	case KindDateTime, KindDate, KindTime, KindDuration:
		return true
	}
	return k >= KindIPAddr && k < KindTextMarshaler
}
