package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

const (
	ReportFiveVerifier  = 5
	MinReportFiveLength = 30
	MaxReportFiveLength = 99

	// westOffset is added to the longitude degrees of western fixes.
	westOffset = 200
)

// Status bits of the last report byte.
const (
	Flag2D            uint8 = 1 << 0
	FlagDeadReckoning uint8 = 1 << 1
	Flag3D            uint8 = 1 << 2
	FlagEmergency     uint8 = 1 << 4
	FlagMotion        uint8 = 1 << 5
	FlagEmergencyAck  uint8 = 1 << 6
)

type FixType string

const (
	FixValid3D       FixType = "valid3d"
	Fix2D            FixType = "2d"
	FixDeadReckoning FixType = "deadreckoning"
	FixOther         FixType = "other"
)

// FixFromFlags picks the fix type from the status byte, 3D first, then 2D, then dead reckoning.
func FixFromFlags(flags uint8) FixType {
	switch {
	case flags&Flag3D != 0:
		return FixValid3D
	case flags&Flag2D != 0:
		return Fix2D
	case flags&FlagDeadReckoning != 0:
		return FixDeadReckoning
	default:
		return FixOther
	}
}

type GpsReport struct {
	Time             time.Time `json:"time"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Altitude         float64   `json:"altitude"`
	GroundSpeed      float64   `json:"ground_speed"`
	Course           float64   `json:"course"`
	VerticalVelocity float64   `json:"vertical_velocity"`
	Fix              FixType   `json:"fix"`
	Satellites       uint8     `json:"satellites"`
	HDOP             float64   `json:"hdop"`
	VDOP             float64   `json:"vdop"`
	Motion           bool      `json:"motion"`
	Emergency        bool      `json:"emergency"`
	EmergencyAck     bool      `json:"emergency_ack"`
	InputPins        uint8     `json:"input_pins"`
	OutputPins       uint8     `json:"output_pins"`
}

// ReportFields holds the raw decimal fields of a GPS report 5, before unit conversion.
//
// Falling and BelowSea are carried on the wire as a leading digit that is 0 when the
// flag is set.
type ReportFields struct {
	InputPins uint8

	South                 bool
	LngOrigin             uint64 // degrees, plus 200 for western longitudes
	LngMinutes            uint64
	LngMinutesThousandths uint64
	LatDegrees            uint64
	LatMinutes            uint64
	LatMinutesThousandths uint64
	HDOP                  uint64 // hundredths

	Falling    bool
	Month      uint64
	Day        uint64
	Year       uint64
	Hour       uint64
	Minute     uint64
	Second     uint64
	Tenths     uint64 // tenths of a second
	VVTimePart uint64 // low four digits of the vertical velocity

	BelowSea         bool
	CourseRaw        uint64
	AltitudeDecimals uint64
	AltitudeDigits   uint64
	SpeedDecimals    uint64
	SpeedDigits      uint64
	OutputPins       uint64

	VVScale     uint64
	VDOP        uint64 // hundredths
	Satellites  uint64
	VVTensDigit uint64
	Flags       uint8
}

// DecodeGpsReport5 decodes a GPS report of format 5. length is the declared payload length.
func DecodeGpsReport5(c *Cursor, length int) (*GpsReport, error) {
	if length < MinReportFiveLength || length > MaxReportFiveLength {
		return nil, fmt.Errorf("%w: gps report length %d", ErrBadBlockLength, length)
	}
	fields, err := UnpackReportFields(c)
	if err != nil {
		return nil, err
	}
	return fields.Report()
}

// UnpackReportFields reads the fixed 30 byte layout and splits its packed decimal blocks.
func UnpackReportFields(c *Cursor) (*ReportFields, error) {
	verifier, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if verifier != ReportFiveVerifier {
		return nil, fmt.Errorf("%w: verifier %d", ErrUnsupportedFormat, verifier)
	}
	f := &ReportFields{}
	if f.InputPins, err = c.ReadU8(); err != nil {
		return nil, err
	}
	locationBlock, err := c.ReadU64(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	timeBlock, err := c.ReadU64(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	calcBlock, err := c.ReadU64(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	aux16, err := c.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	aux8a, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if f.Flags, err = c.ReadU8(); err != nil {
		return nil, err
	}

	f.South = extractDigits(&locationBlock, 19) != 0
	f.LngOrigin = extractDigits(&locationBlock, 16)
	f.LngMinutes = extractDigits(&locationBlock, 14)
	f.LngMinutesThousandths = extractDigits(&locationBlock, 11)
	f.LatDegrees = extractDigits(&locationBlock, 9)
	f.LatMinutes = extractDigits(&locationBlock, 7)
	f.LatMinutesThousandths = extractDigits(&locationBlock, 4)
	f.HDOP = locationBlock

	f.Falling = extractDigits(&timeBlock, 19) == 0
	f.Month = extractDigits(&timeBlock, 17)
	f.Day = extractDigits(&timeBlock, 15)
	f.Year = extractDigits(&timeBlock, 11)
	f.Hour = extractDigits(&timeBlock, 9)
	f.Minute = extractDigits(&timeBlock, 7)
	f.Second = extractDigits(&timeBlock, 5)
	f.Tenths = extractDigits(&timeBlock, 4)
	f.VVTimePart = timeBlock

	f.BelowSea = extractDigits(&calcBlock, 19) == 0
	f.CourseRaw = extractDigits(&calcBlock, 14)
	f.AltitudeDecimals = extractDigits(&calcBlock, 13)
	f.AltitudeDigits = extractDigits(&calcBlock, 8)
	f.SpeedDecimals = extractDigits(&calcBlock, 7)
	f.SpeedDigits = extractDigits(&calcBlock, 2)
	f.OutputPins = calcBlock % 64

	f.VVScale = uint64(aux16) / 10000
	f.VDOP = uint64(aux16) % 10000
	f.Satellites = uint64(aux8a) / 10
	f.VVTensDigit = uint64(aux8a) % 10
	return f, nil
}

// Report converts the raw fields to physical units and checks the coordinates.
func (f *ReportFields) Report() (*GpsReport, error) {
	west := f.LngOrigin >= westOffset
	lngDegrees := f.LngOrigin
	if west {
		lngDegrees -= westOffset
	}
	latitude := (float64(f.LatDegrees) + (float64(f.LatMinutes)+float64(f.LatMinutesThousandths)/1000)/60) * sign(f.South)
	longitude := (float64(lngDegrees) + (float64(f.LngMinutes)+float64(f.LngMinutesThousandths)/1000)/60) * sign(west)
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: latitude %f longitude %f", ErrOutOfRange, latitude, longitude)
	}

	// the course is truncated twice, once when unpacked and once when used
	course := f.CourseRaw / 100
	course /= 100

	verticalVelocity := scaleDigits(f.VVTensDigit*10000+f.VVTimePart, f.VVScale)
	if !f.Falling {
		verticalVelocity = -verticalVelocity
	}

	return &GpsReport{
		Time: time.Date(int(f.Year), time.Month(f.Month), int(f.Day),
			int(f.Hour), int(f.Minute), int(f.Second),
			int(f.Tenths*100)*int(time.Millisecond), time.UTC),
		Latitude:         latitude,
		Longitude:        longitude,
		Altitude:         scaleDigits(f.AltitudeDigits, f.AltitudeDecimals) * sign(f.BelowSea),
		GroundSpeed:      scaleDigits(f.SpeedDigits, f.SpeedDecimals),
		Course:           float64(course),
		VerticalVelocity: verticalVelocity,
		Fix:              FixFromFlags(f.Flags),
		Satellites:       uint8(f.Satellites),
		HDOP:             float64(f.HDOP) / 100,
		VDOP:             float64(f.VDOP) / 100,
		Motion:           f.Flags&FlagMotion != 0,
		Emergency:        f.Flags&FlagEmergency != 0,
		EmergencyAck:     f.Flags&FlagEmergencyAck != 0,
		InputPins:        f.InputPins,
		OutputPins:       uint8(f.OutputPins),
	}, nil
}

var powersOfTen = func() [20]uint64 {
	var p [20]uint64
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// extractDigits returns the digits of *block above 10^exp and leaves the rest in *block.
func extractDigits(block *uint64, exp int) uint64 {
	divisor := powersOfTen[exp]
	value := *block / divisor
	*block %= divisor
	return value
}

// scaleDigits reads a five digit magnitude with the given number of implied decimals.
func scaleDigits[T constraints.Unsigned](digits, decimals T) float64 {
	return float64(digits) / math.Pow(10, float64(5-int(decimals)))
}
