package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

// Block is one raw IEI tagged element of an MO message.
type Block struct {
	IEI  uint8
	Body []byte
}

// EncodeMessage frames blocks into an MO message.
func EncodeMessage(version uint8, blocks ...Block) ([]byte, error) {
	total := 0
	for _, block := range blocks {
		if len(block.Body) > math.MaxUint16 {
			return nil, fmt.Errorf("block %d body too long: %d", block.IEI, len(block.Body))
		}
		total += blockOverhead + len(block.Body)
	}
	if total > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrBadEnvelopeLength, total)
	}
	data := make([]byte, 0, 3+total)
	data = append(data, version)
	data = binary.BigEndian.AppendUint16(data, uint16(total))
	for _, block := range blocks {
		data = append(data, block.IEI)
		data = binary.BigEndian.AppendUint16(data, uint16(len(block.Body)))
		data = append(data, block.Body...)
	}
	return data, nil
}

// SplitBlocks reads the framing of an MO message without decoding block bodies.
func SplitBlocks(data []byte) (uint8, []Block, error) {
	c := NewCursor(data)
	version, err := c.ReadU8()
	if err != nil {
		return 0, nil, err
	}
	total, err := c.ReadU16(binary.BigEndian)
	if err != nil {
		return 0, nil, err
	}
	var blocks []Block
	for remaining := int(total); remaining > 0; {
		iei, err := c.ReadU8()
		if err != nil {
			return 0, nil, err
		}
		length, err := c.ReadU16(binary.BigEndian)
		if err != nil {
			return 0, nil, err
		}
		body, err := c.ReadBytes(int(length))
		if err != nil {
			return 0, nil, err
		}
		blocks = append(blocks, Block{IEI: iei, Body: body})
		remaining -= blockOverhead + int(length)
	}
	return version, blocks, nil
}

func EncodeHeader(header *Header) (Block, error) {
	if len(header.IMEI) != imeiLength {
		return Block{}, fmt.Errorf("invalid imei: %q", header.IMEI)
	}
	body := make([]byte, 0, HeaderLength)
	body = binary.BigEndian.AppendUint32(body, header.CDR)
	body = append(body, header.IMEI...)
	body = append(body, header.Session)
	body = binary.BigEndian.AppendUint16(body, header.MOMSN)
	body = binary.BigEndian.AppendUint16(body, header.MTMSN)
	body = binary.BigEndian.AppendUint32(body, uint32(header.Time.Unix()))
	return Block{IEI: HeaderIEI, Body: body}, nil
}

func EncodeLocation(location *Location) Block {
	var direction uint8
	if location.Longitude < 0 {
		direction |= 0x01
	}
	if location.Latitude < 0 {
		direction |= 0x02
	}
	latDegree, latMinute := splitDegrees(location.Latitude)
	lngDegree, lngMinute := splitDegrees(location.Longitude)

	body := make([]byte, 0, LocationLength)
	body = append(body, direction, latDegree)
	body = binary.BigEndian.AppendUint16(body, latMinute)
	body = append(body, lngDegree)
	body = binary.BigEndian.AppendUint16(body, lngMinute)
	body = binary.BigEndian.AppendUint32(body, location.CEPRadius)
	return Block{IEI: LocationIEI, Body: body}
}

// splitDegrees returns whole degrees and thousandths of minutes of |value|.
func splitDegrees(value float64) (uint8, uint16) {
	value = math.Abs(value)
	degrees := math.Floor(value)
	minutes := math.Round((value - degrees) * 60000)
	if minutes >= 60000 {
		degrees++
		minutes = 0
	}
	return uint8(degrees), uint16(minutes)
}

func EncodeConfirm(confirm bool) Block {
	var b uint8
	if confirm {
		b = 1
	}
	return Block{IEI: ConfirmIEI, Body: []byte{b}}
}

func EncodePayload(body []byte) Block {
	return Block{IEI: PayloadIEI, Body: body}
}

type packedField struct {
	name   string
	value  uint64
	digits int
	exp    int
}

// packDigits places each field's decimal digits at 10^exp and sums them.
func packDigits(fields ...packedField) (uint64, error) {
	var block uint64
	for _, f := range fields {
		if f.value >= powersOfTen[f.digits] {
			return 0, fmt.Errorf("%s does not fit in %d digits: %d", f.name, f.digits, f.value)
		}
		hi, part := bits.Mul64(f.value, powersOfTen[f.exp])
		var carry uint64
		block, carry = bits.Add64(block, part, 0)
		if hi != 0 || carry != 0 {
			return 0, fmt.Errorf("%s overflows the 64 bit block", f.name)
		}
	}
	return block, nil
}

func digit(set bool) uint64 {
	if set {
		return 1
	}
	return 0
}

// Encode packs the fields into the fixed 30 byte GPS report 5 layout.
func (f *ReportFields) Encode() ([]byte, error) {
	locationBlock, err := packDigits(
		packedField{"south", digit(f.South), 1, 19},
		packedField{"longitude origin", f.LngOrigin, 3, 16},
		packedField{"longitude minutes", f.LngMinutes, 2, 14},
		packedField{"longitude minutes thousandths", f.LngMinutesThousandths, 3, 11},
		packedField{"latitude degrees", f.LatDegrees, 2, 9},
		packedField{"latitude minutes", f.LatMinutes, 2, 7},
		packedField{"latitude minutes thousandths", f.LatMinutesThousandths, 3, 4},
		packedField{"hdop", f.HDOP, 4, 0},
	)
	if err != nil {
		return nil, err
	}
	timeBlock, err := packDigits(
		packedField{"falling", digit(!f.Falling), 1, 19},
		packedField{"month", f.Month, 2, 17},
		packedField{"day", f.Day, 2, 15},
		packedField{"year", f.Year, 4, 11},
		packedField{"hour", f.Hour, 2, 9},
		packedField{"minute", f.Minute, 2, 7},
		packedField{"second", f.Second, 2, 5},
		packedField{"tenths", f.Tenths, 1, 4},
		packedField{"vertical velocity", f.VVTimePart, 4, 0},
	)
	if err != nil {
		return nil, err
	}
	calcBlock, err := packDigits(
		packedField{"below sea", digit(!f.BelowSea), 1, 19},
		packedField{"course", f.CourseRaw, 5, 14},
		packedField{"altitude decimals", f.AltitudeDecimals, 1, 13},
		packedField{"altitude", f.AltitudeDigits, 5, 8},
		packedField{"speed decimals", f.SpeedDecimals, 1, 7},
		packedField{"speed", f.SpeedDigits, 5, 2},
		packedField{"output pins", f.OutputPins, 2, 0},
	)
	if err != nil {
		return nil, err
	}
	if f.OutputPins >= 64 {
		return nil, fmt.Errorf("output pins out of range: %d", f.OutputPins)
	}
	if f.VDOP >= 10000 || f.VVScale*10000+f.VDOP > math.MaxUint16 {
		return nil, fmt.Errorf("vdop %d with scale %d does not fit", f.VDOP, f.VVScale)
	}
	if f.VVTensDigit >= 10 || f.Satellites*10+f.VVTensDigit > math.MaxUint8 {
		return nil, fmt.Errorf("satellites %d with digit %d does not fit", f.Satellites, f.VVTensDigit)
	}

	data := make([]byte, 0, MinReportFiveLength)
	data = append(data, ReportFiveVerifier, f.InputPins)
	data = binary.BigEndian.AppendUint64(data, locationBlock)
	data = binary.BigEndian.AppendUint64(data, timeBlock)
	data = binary.BigEndian.AppendUint64(data, calcBlock)
	data = binary.LittleEndian.AppendUint16(data, uint16(f.VVScale*10000+f.VDOP))
	data = append(data, uint8(f.Satellites*10+f.VVTensDigit), f.Flags)
	return data, nil
}
