package logger

// Standard field keys for structured logging.
const (
	KeyEvent    = "event"    // ENTER or EXIT of a traced operation
	KeyFunction = "function" // traced operation name
	KeyPos      = "pos"      // cursor bit position
	KeySize     = "size"     // buffer size in bits
	KeyBits     = "bits"     // requested bit count
	KeyBytes    = "bytes"    // requested byte count
	KeyFault    = "fault"    // sticky stream fault
	KeyField    = "field"    // layout field name
	KeyKind     = "kind"     // layout field kind
	KeyFormat   = "format"   // output renderer name
	KeyConfig   = "config"   // config file path
)
