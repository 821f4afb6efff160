package parser

import (
	"encoding/binary"
	"fmt"
)

// MaxMessageLength is the largest MO message the scanner accepts: the envelope
// prefix, a header, a full payload, a location and a confirm block.
const MaxMessageLength = 3 +
	blockOverhead + HeaderLength +
	blockOverhead + MaxPayloadLength +
	blockOverhead + LocationLength +
	blockOverhead + ConfirmLength

// MessageScanner splits a TCP byte stream into complete MO messages using the
// envelope length prefix.
type MessageScanner struct {
	maxMessageLength int
}

func NewMessageScanner(maxMessageLength int) *MessageScanner {
	if maxMessageLength <= 0 {
		maxMessageLength = MaxMessageLength
	}
	return &MessageScanner{maxMessageLength: maxMessageLength}
}

// SplitFunc has the semantics of bufio.SplitFunc. When the declared length is
// larger than the limit it returns ErrBadEnvelopeLength and advances past all of data.
func (ms *MessageScanner) SplitFunc(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(data) < 3 {
		if atEOF && len(data) > 0 {
			return len(data), nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedInput, len(data))
		}
		return 0, nil, nil
	}
	total := 3 + int(binary.BigEndian.Uint16(data[1:3]))
	if total > ms.maxMessageLength {
		return len(data), nil, fmt.Errorf("%w: declared %d bytes, limit %d",
			ErrBadEnvelopeLength, total, ms.maxMessageLength)
	}
	if len(data) < total {
		if atEOF {
			return len(data), nil, fmt.Errorf("%w: have %d of %d bytes", ErrTruncatedInput, len(data), total)
		}
		return 0, nil, nil
	}
	return total, data[:total], nil
}
