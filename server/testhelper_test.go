package server

import (
	"fmt"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/openfms/sbd-device/parser"
	"gotest.tools/v3/assert"
)

func generateRandomHostPort() string {
	port := rand.Intn(65535-1024) + 1024
	return net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port))
}

// RunNatsServerOnRandomPort will run a nats server on a free port.
func RunNatsServerOnRandomPort() *server.Server {
	opts := natstest.DefaultTestOptions
	opts.Port = server.RANDOM_PORT
	return RunNatsServerWithOptions(&opts)
}

// RunNatsServerWithOptions will run a server with the given options.
func RunNatsServerWithOptions(opts *server.Options) *server.Server {
	return natstest.RunServer(opts)
}

func NewNatsConnection(t *testing.T, url string) *nats.Conn {
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("Failed to create default connection: %v\n", err)
	}
	return nc
}

// DialServer retries until the server started by Start accepts connections.
func DialServer(t *testing.T, addr string) net.Conn {
	t.Helper()
	var lastErr error
	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn
		}
		lastErr = err
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dial %s: %v", addr, lastErr)
	return nil
}

func SampleReportFields(satellites uint64) *parser.ReportFields {
	return &parser.ReportFields{
		InputPins:             0x0A,
		LngOrigin:             212,
		LngMinutes:            45,
		LatDegrees:            45,
		LatMinutes:            15,
		LatMinutesThousandths: 250,
		HDOP:                  123,
		Falling:               true,
		Month:                 6,
		Day:                   15,
		Year:                  2023,
		Hour:                  12,
		Minute:                34,
		Second:                56,
		VVTimePart:            2345,
		CourseRaw:             27050,
		AltitudeDecimals:      1,
		AltitudeDigits:        35000,
		SpeedDecimals:         1,
		SpeedDigits:           4500,
		OutputPins:            3,
		VVScale:               2,
		VDOP:                  250,
		Satellites:            satellites,
		Flags:                 parser.Flag3D,
	}
}

// BuildMessage encodes a header + GPS report message for imei.
func BuildMessage(t *testing.T, imei string, satellites uint64) []byte {
	t.Helper()
	header, err := parser.EncodeHeader(&parser.Header{
		CDR:   1,
		IMEI:  imei,
		MOMSN: 7,
		Time:  time.Date(2023, time.June, 15, 12, 35, 0, 0, time.UTC),
	})
	assert.NilError(t, err)
	report, err := SampleReportFields(satellites).Encode()
	assert.NilError(t, err)
	data, err := parser.EncodeMessage(1, header, parser.EncodePayload(report))
	assert.NilError(t, err)
	return data
}

// BuildHeaderOnlyMessage encodes a message without a GPS report.
func BuildHeaderOnlyMessage(t *testing.T, imei string) []byte {
	t.Helper()
	header, err := parser.EncodeHeader(&parser.Header{IMEI: imei, Time: time.Unix(0, 0).UTC()})
	assert.NilError(t, err)
	data, err := parser.EncodeMessage(1, header, parser.EncodeConfirm(true))
	assert.NilError(t, err)
	return data
}
