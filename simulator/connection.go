package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/openfms/sbd-device/parser"
	"go.uber.org/zap"
)

func (m *Modem) SendMessage(data []byte) error {
	if m.conn == nil {
		return fmt.Errorf("modem is not connected")
	}
	_, err := m.conn.Write(data)
	if err != nil {
		return fmt.Errorf("failed to send sbd message: %w", err)
	}
	return nil
}

// NextMessage builds the next MO message of the modem: a header with an
// increasing MOMSN, a random GPS report and a location block.
func (m *Modem) NextMessage(now time.Time) ([]byte, *parser.ReportFields, error) {
	m.momsn++
	header, err := parser.EncodeHeader(&parser.Header{
		CDR:   m.randomizer.Uint32(),
		IMEI:  m.imei,
		MOMSN: m.momsn,
		Time:  now.Truncate(time.Second).UTC(),
	})
	if err != nil {
		return nil, nil, err
	}
	fields := RandomReportFields(m.randomizer, now)
	report, err := fields.Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode gps report: %w", err)
	}
	gps, err := fields.Report()
	if err != nil {
		return nil, nil, err
	}
	location := parser.EncodeLocation(&parser.Location{
		Latitude:  gps.Latitude,
		Longitude: gps.Longitude,
		CEPRadius: uint32(m.randomizer.Intn(50) + 1),
	})
	data, err := parser.EncodeMessage(1, header, parser.EncodePayload(report), location)
	if err != nil {
		return nil, nil, err
	}
	return data, fields, nil
}

// SendRandomMessages sends one random message per interval until ctx is done or a write fails.
func (m *Modem) SendRandomMessages(ctx context.Context, interval time.Duration) {
	m.wg.Add(1)
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		data, fields, err := m.NextMessage(time.Now())
		if err != nil {
			m.log.Error("failed to build sbd message", zap.Error(err))
			return
		}
		if err := m.SendMessage(data); err != nil {
			m.log.Error("failed to send sbd message", zap.Error(err))
			return
		}
		m.log.Info("sent sbd message",
			zap.String("imei", m.imei),
			zap.Uint16("momsn", m.momsn),
			zap.Int("size", len(data)),
			zap.Uint64("satellites", fields.Satellites),
		)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
