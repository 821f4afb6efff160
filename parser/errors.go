package parser

import "errors"

var (
	ErrTruncatedInput    = errors.New("truncated input")
	ErrBadEnvelopeLength = errors.New("bad envelope length")
	ErrUnknownBlockType  = errors.New("unknown block type")
	ErrBadBlockLength    = errors.New("bad block length")
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrOutOfRange        = errors.New("location out of range")
	ErrNoFlightData      = errors.New("flight data not found in packet")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrTruncatedInput, "truncated_input"},
	{ErrBadEnvelopeLength, "bad_envelope_length"},
	{ErrUnknownBlockType, "unknown_block_type"},
	{ErrBadBlockLength, "bad_block_length"},
	{ErrUnsupportedFormat, "unsupported_format"},
	{ErrOutOfRange, "out_of_range"},
	{ErrNoFlightData, "no_flight_data"},
}

// ErrorKind returns a short label for a decode error, suitable as a metric label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "other"
}
