package simulator

import (
	"math/rand"
	"time"

	"github.com/openfms/sbd-device/parser"
)

// RandomReportFields returns a valid packed GPS report for a fix taken at now.
func RandomReportFields(randomizer *rand.Rand, now time.Time) *parser.ReportFields {
	now = now.UTC()
	lngOrigin := uint64(randomizer.Intn(180))
	if randomizer.Intn(2) == 1 {
		lngOrigin += 200
	}
	flags := []uint8{parser.Flag3D, parser.Flag2D, parser.FlagDeadReckoning, 0}[randomizer.Intn(4)]
	if randomizer.Intn(4) == 0 {
		flags |= parser.FlagMotion
	}
	return &parser.ReportFields{
		InputPins:             uint8(randomizer.Intn(256)),
		South:                 randomizer.Intn(2) == 1,
		LngOrigin:             lngOrigin,
		LngMinutes:            uint64(randomizer.Intn(60)),
		LngMinutesThousandths: uint64(randomizer.Intn(1000)),
		LatDegrees:            uint64(randomizer.Intn(90)),
		LatMinutes:            uint64(randomizer.Intn(60)),
		LatMinutesThousandths: uint64(randomizer.Intn(1000)),
		HDOP:                  uint64(randomizer.Intn(1000)),
		Falling:               randomizer.Intn(2) == 1,
		Month:                 uint64(now.Month()),
		Day:                   uint64(now.Day()),
		Year:                  uint64(now.Year()),
		Hour:                  uint64(now.Hour()),
		Minute:                uint64(now.Minute()),
		Second:                uint64(now.Second()),
		Tenths:                uint64(now.Nanosecond() / int(100*time.Millisecond)),
		VVTimePart:            uint64(randomizer.Intn(10000)),
		BelowSea:              randomizer.Intn(20) == 0,
		CourseRaw:             uint64(randomizer.Intn(36000)),
		AltitudeDecimals:      uint64(randomizer.Intn(3)),
		AltitudeDigits:        uint64(randomizer.Intn(100000)),
		SpeedDecimals:         uint64(randomizer.Intn(3)),
		SpeedDigits:           uint64(randomizer.Intn(100000)),
		OutputPins:            uint64(randomizer.Intn(64)),
		VVScale:               uint64(randomizer.Intn(4)),
		VDOP:                  uint64(randomizer.Intn(1000)),
		Satellites:            uint64(randomizer.Intn(13)),
		VVTensDigit:           uint64(randomizer.Intn(2)),
		Flags:                 flags,
	}
}
