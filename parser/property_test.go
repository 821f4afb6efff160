package parser

import (
	"fmt"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

var knownIEIs = []uint8{HeaderIEI, PayloadIEI, LocationIEI, ConfirmIEI}

func drawReportFields(t *rapid.T) *ReportFields {
	lngOrigin := rapid.Uint64Range(0, 179).Draw(t, "lng")
	if rapid.Bool().Draw(t, "west") {
		lngOrigin += westOffset
	}
	return &ReportFields{
		InputPins:             rapid.Uint8().Draw(t, "input"),
		South:                 rapid.Bool().Draw(t, "south"),
		LngOrigin:             lngOrigin,
		LngMinutes:            rapid.Uint64Range(0, 59).Draw(t, "lngMinutes"),
		LngMinutesThousandths: rapid.Uint64Range(0, 999).Draw(t, "lngThousandths"),
		LatDegrees:            rapid.Uint64Range(0, 89).Draw(t, "lat"),
		LatMinutes:            rapid.Uint64Range(0, 59).Draw(t, "latMinutes"),
		LatMinutesThousandths: rapid.Uint64Range(0, 999).Draw(t, "latThousandths"),
		HDOP:                  rapid.Uint64Range(0, 9999).Draw(t, "hdop"),
		Falling:               rapid.Bool().Draw(t, "falling"),
		Month:                 rapid.Uint64Range(1, 12).Draw(t, "month"),
		Day:                   rapid.Uint64Range(1, 28).Draw(t, "day"),
		Year:                  rapid.Uint64Range(2000, 2099).Draw(t, "year"),
		Hour:                  rapid.Uint64Range(0, 23).Draw(t, "hour"),
		Minute:                rapid.Uint64Range(0, 59).Draw(t, "minute"),
		Second:                rapid.Uint64Range(0, 59).Draw(t, "second"),
		Tenths:                rapid.Uint64Range(0, 9).Draw(t, "tenths"),
		VVTimePart:            rapid.Uint64Range(0, 9999).Draw(t, "vvPart"),
		BelowSea:              rapid.Bool().Draw(t, "belowSea"),
		CourseRaw:             rapid.Uint64Range(0, 36000).Draw(t, "course"),
		AltitudeDecimals:      rapid.Uint64Range(0, 5).Draw(t, "altDecimals"),
		AltitudeDigits:        rapid.Uint64Range(0, 99999).Draw(t, "alt"),
		SpeedDecimals:         rapid.Uint64Range(0, 5).Draw(t, "speedDecimals"),
		SpeedDigits:           rapid.Uint64Range(0, 99999).Draw(t, "speed"),
		OutputPins:            rapid.Uint64Range(0, 63).Draw(t, "output"),
		VVScale:               rapid.Uint64Range(0, 5).Draw(t, "vvScale"),
		VDOP:                  rapid.Uint64Range(0, 9999).Draw(t, "vdop"),
		Satellites:            rapid.Uint64Range(0, 25).Draw(t, "satellites"),
		VVTensDigit:           rapid.Uint64Range(0, 9).Draw(t, "vvTens"),
		Flags:                 rapid.Uint8().Draw(t, "flags"),
	}
}

func TestPropertyFramingRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		version := rapid.Uint8().Draw(t, "version")
		blocks := make([]Block, rapid.IntRange(0, 6).Draw(t, "blocks"))
		for i := range blocks {
			blocks[i] = Block{
				IEI:  rapid.SampledFrom(knownIEIs).Draw(t, fmt.Sprintf("iei%d", i)),
				Body: rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, fmt.Sprintf("body%d", i)),
			}
		}
		data, err := EncodeMessage(version, blocks...)
		assert.NilError(t, err)

		gotVersion, gotBlocks, err := SplitBlocks(data)
		assert.NilError(t, err)
		assert.Equal(t, gotVersion, version)
		assert.Equal(t, len(gotBlocks), len(blocks))

		reencoded, err := EncodeMessage(gotVersion, gotBlocks...)
		assert.NilError(t, err)
		assert.DeepEqual(t, reencoded, data)
	})
}

func TestPropertyHeaderConfirmRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		header := &Header{
			CDR:     rapid.Uint32().Draw(t, "cdr"),
			IMEI:    rapid.StringMatching(`[0-9]{15}`).Draw(t, "imei"),
			Session: rapid.Uint8().Draw(t, "session"),
			MOMSN:   rapid.Uint16().Draw(t, "momsn"),
			MTMSN:   rapid.Uint16().Draw(t, "mtmsn"),
			Time:    time.Unix(int64(rapid.Uint32().Draw(t, "time")), 0).UTC(),
		}
		confirm := rapid.Bool().Draw(t, "confirm")
		headerBlock, err := EncodeHeader(header)
		assert.NilError(t, err)
		data, err := EncodeMessage(1, headerBlock, EncodeConfirm(confirm))
		assert.NilError(t, err)

		msg, err := DecodeMessage(data)
		assert.NilError(t, err)
		assert.DeepEqual(t, msg.Header, header)
		assert.Equal(t, *msg.Confirm, confirm)

		headerBlock, err = EncodeHeader(msg.Header)
		assert.NilError(t, err)
		reencoded, err := EncodeMessage(msg.Version, headerBlock, EncodeConfirm(*msg.Confirm))
		assert.NilError(t, err)
		assert.DeepEqual(t, reencoded, data)
	})
}

func TestPropertyHeaderLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.Uint16().Filter(func(v uint16) bool { return v != HeaderLength }).Draw(t, "length")
		bodyLen := int(length)
		if bodyLen > 64 {
			bodyLen = 64
		}
		_, err := DecodeMessage(envelope(1, rawBlock(HeaderIEI, length, make([]byte, bodyLen))))
		assert.ErrorIs(t, err, ErrBadBlockLength)
	})
}

func TestPropertyUnsupportedVerifier(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		verifier := rapid.Uint8().Filter(func(v uint8) bool { return v != ReportFiveVerifier }).Draw(t, "verifier")
		rest := rapid.SliceOfN(rapid.Byte(), 29, 29).Draw(t, "rest")
		c := NewCursor(append([]byte{verifier}, rest...))
		_, err := DecodeGpsReport5(c, 30)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Equal(t, c.Pos(), 1)
	})
}

func TestPropertyReportFieldsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fields := drawReportFields(t)
		data, err := fields.Encode()
		assert.NilError(t, err)
		got, err := UnpackReportFields(NewCursor(data))
		assert.NilError(t, err)
		assert.DeepEqual(t, got, fields)
	})
}

func TestPropertyFixFromStatusBits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fields := drawReportFields(t)
		data, err := fields.Encode()
		assert.NilError(t, err)
		report, err := DecodeGpsReport5(NewCursor(data), len(data))
		assert.NilError(t, err)

		want := FixOther
		if fields.Flags&0x02 != 0 {
			want = FixDeadReckoning
		}
		if fields.Flags&0x01 != 0 {
			want = Fix2D
		}
		if fields.Flags&0x04 != 0 {
			want = FixValid3D
		}
		assert.Equal(t, report.Fix, want)
		assert.Assert(t, report.Latitude >= -90 && report.Latitude <= 90)
		assert.Assert(t, report.Longitude >= -180 && report.Longitude <= 180)
	})
}
