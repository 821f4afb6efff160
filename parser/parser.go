package parser

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Information Element Identifiers of an MO message.
const (
	HeaderIEI   uint8 = 1
	PayloadIEI  uint8 = 2
	LocationIEI uint8 = 3
	ConfirmIEI  uint8 = 5
)

const (
	HeaderLength     = 28
	MaxPayloadLength = 1960
	LocationLength   = 11
	ConfirmLength    = 1

	// blockOverhead is the IEI byte plus the 2 byte block length.
	blockOverhead = 3
	imeiLength    = 15
)

// Message is one decoded MO message. A block is nil unless its IEI was present.
type Message struct {
	Version  uint8      `json:"version"`
	Header   *Header    `json:"header"`
	Payload  *GpsReport `json:"payload"`
	Location *Location  `json:"location"`
	Confirm  *bool      `json:"confirm"`
}

type Header struct {
	CDR     uint32    `json:"cdr"`
	IMEI    string    `json:"imei"`
	Session uint8     `json:"session"`
	MOMSN   uint16    `json:"momsn"`
	MTMSN   uint16    `json:"mtmsn"`
	Time    time.Time `json:"time"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CEPRadius uint32  `json:"cep_radius"`
}

// PayloadDecoder decodes the body of a payload block whose declared length is length.
type PayloadDecoder func(c *Cursor, length int) (*GpsReport, error)

// Decoder decodes MO messages. The zero value decodes payloads as GPS report 5.
type Decoder struct {
	Payload PayloadDecoder
}

var defaultDecoder = &Decoder{Payload: DecodeGpsReport5}

// DecodeMessage decodes one complete MO message buffer.
func DecodeMessage(data []byte) (*Message, error) {
	return defaultDecoder.Decode(data)
}

func (d *Decoder) Decode(data []byte) (*Message, error) {
	c := NewCursor(data)
	version, err := c.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	messageLength, err := c.ReadU16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("read message length: %w", err)
	}
	msg := &Message{Version: version}
	remaining := int(messageLength)
	for remaining > 0 {
		iei, err := c.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("read iei: %w", err)
		}
		blockLength, err := d.decodeBlock(c, iei, msg)
		if err != nil {
			return nil, err
		}
		remaining -= blockOverhead + blockLength
	}
	return msg, nil
}

func (d *Decoder) decodeBlock(c *Cursor, iei uint8, msg *Message) (int, error) {
	switch iei {
	case HeaderIEI, PayloadIEI, LocationIEI, ConfirmIEI:
	default:
		return 0, fmt.Errorf("%w: iei %d at offset %d", ErrUnknownBlockType, iei, c.Pos()-1)
	}
	length, err := c.ReadU16(binary.BigEndian)
	if err != nil {
		return 0, fmt.Errorf("read block %d length: %w", iei, err)
	}
	n := int(length)
	switch iei {
	case HeaderIEI:
		if n != HeaderLength {
			return 0, fmt.Errorf("%w: header length %d", ErrBadBlockLength, n)
		}
	case PayloadIEI:
		if n > MaxPayloadLength {
			return 0, fmt.Errorf("%w: payload length %d", ErrBadBlockLength, n)
		}
	case LocationIEI:
		if n != LocationLength {
			return 0, fmt.Errorf("%w: location length %d", ErrBadBlockLength, n)
		}
	case ConfirmIEI:
		if n != ConfirmLength {
			return 0, fmt.Errorf("%w: confirm length %d", ErrBadBlockLength, n)
		}
	}
	body, err := c.ReadBytes(n)
	if err != nil {
		return 0, fmt.Errorf("read block %d body: %w", iei, err)
	}
	bc := NewCursor(body)

	switch iei {
	case HeaderIEI:
		msg.Header, err = decodeHeader(bc)
	case PayloadIEI:
		payload := d.Payload
		if payload == nil {
			payload = DecodeGpsReport5
		}
		msg.Payload, err = payload(bc, n)
	case LocationIEI:
		msg.Location, err = decodeLocation(bc)
	case ConfirmIEI:
		var confirm bool
		confirm, err = decodeConfirm(bc)
		if err == nil {
			msg.Confirm = &confirm
		}
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func decodeHeader(c *Cursor) (*Header, error) {
	header := &Header{}
	var err error
	if header.CDR, err = c.ReadU32(binary.BigEndian); err != nil {
		return nil, err
	}
	if header.IMEI, err = c.ReadASCII(imeiLength); err != nil {
		return nil, err
	}
	if header.Session, err = c.ReadU8(); err != nil {
		return nil, err
	}
	if header.MOMSN, err = c.ReadU16(binary.BigEndian); err != nil {
		return nil, err
	}
	if header.MTMSN, err = c.ReadU16(binary.BigEndian); err != nil {
		return nil, err
	}
	sessionTime, err := c.ReadU32(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	header.Time = time.Unix(int64(sessionTime), 0).UTC()
	return header, nil
}

func decodeLocation(c *Cursor) (*Location, error) {
	direction, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	west := direction&0x01 != 0
	south := direction&0x02 != 0

	latDegree, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	latMinute, err := c.ReadU16(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	lngDegree, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	lngMinute, err := c.ReadU16(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	cepRadius, err := c.ReadU32(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	return &Location{
		Latitude:  (float64(latDegree) + float64(latMinute)/60000) * sign(south),
		Longitude: (float64(lngDegree) + float64(lngMinute)/60000) * sign(west),
		CEPRadius: cepRadius,
	}, nil
}

func decodeConfirm(c *Cursor) (bool, error) {
	b, err := c.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// sign returns -1 when negative is set, 1 otherwise.
func sign(negative bool) float64 {
	if negative {
		return -1
	}
	return 1
}
