package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/openfms/sbd-device/packetlog"
	"github.com/openfms/sbd-device/parser"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ExplainNoFlightData  = "Flight data not found in packet."
	ExplainNotAssignable = "Flight point not assignable"
)

// ProcessMessage runs one framed SBD message through decoding, persistence,
// publishing and the packet history.
func (s *SBDServer) ProcessMessage(ctx context.Context, data []byte) {
	s.metrics.MessagesReceived.Inc()
	rawHex := hex.EncodeToString(data)
	msg, err := s.decoder.Decode(data)
	s.sbdLog.Info("incoming sbd",
		zap.String("raw", rawHex),
		zap.Any("message", msg),
		zap.Error(err),
	)

	var imei string
	if msg != nil && msg.Header != nil {
		imei = msg.Header.IMEI
	}
	if s.flightDB != nil {
		if rawDataErr := s.flightDB.SaveRawData(ctx, imei, rawHex); rawDataErr != nil {
			s.log.Error("save raw data failed", zap.Error(rawDataErr))
		}
	}
	if err != nil {
		s.metrics.DecodeErrors.WithLabelValues(parser.ErrorKind(err)).Inc()
		s.log.Error("Error while parsing data",
			zap.Error(err),
			zap.Int("size", len(data)),
		)
		s.recordEntry(packetlog.Entry{Status: packetlog.StatusError, Explain: err.Error()})
		return
	}

	point, err := parser.NewFlightPoint(msg)
	if err != nil {
		s.log.Warn("message carries no flight data", zap.String("imei", imei))
		s.recordEntry(packetlog.Entry{Status: packetlog.StatusError, Explain: ExplainNoFlightData})
		return
	}
	s.LogPoint(point)
	s.PublishLastPoint(point)
	s.storePoint(ctx, point)
	if s.packetLog.IsEnabled() {
		s.classifyPoint(ctx, point)
	}
}

// classifyPoint asks the assignment service about points with enough
// satellites and records the outcome.
func (s *SBDServer) classifyPoint(ctx context.Context, point *parser.FlightPoint) {
	if !point.Valid(s.minSatellites) {
		s.recordEntry(packetlog.Entry{Status: packetlog.StatusReject, Data: point})
		return
	}
	if s.assigner == nil {
		s.recordEntry(packetlog.Entry{Status: packetlog.StatusError, Data: point, Explain: ExplainNotAssignable})
		return
	}
	result, err := s.assigner.Assign(ctx, point)
	if err != nil {
		s.log.Error("assign point failed", zap.Error(err), zap.String("imei", point.IMEI))
	}
	if err != nil || !result.Success() {
		s.recordEntry(packetlog.Entry{Status: packetlog.StatusError, Data: point, Explain: ExplainNotAssignable})
		return
	}
	s.recordEntry(packetlog.Entry{
		Status: packetlog.StatusAccept,
		Data:   point,
		Meta: &packetlog.Meta{
			Type:   result.Type,
			Flight: result.Flight,
		},
	})
}

func (s *SBDServer) recordEntry(entry packetlog.Entry) {
	if !s.packetLog.IsEnabled() {
		return
	}
	s.metrics.PointOutcomes.WithLabelValues(string(entry.Status)).Inc()
	s.packetLog.Record(entry)
}

func (s *SBDServer) storePoint(ctx context.Context, point *parser.FlightPoint) {
	if s.lastPoints != nil {
		if e := s.lastPoints.SetLastPoint(ctx, point); e != nil {
			s.log.Error("cache last point failed", zap.Error(e))
		}
	}
	if s.flightDB != nil {
		if e := s.flightDB.SaveFlightPoints(ctx, []*parser.FlightPoint{point}); e != nil {
			s.log.Error("failed to save flight points", zap.Error(e))
		}
	}
}

// PointToStruct converts a flight point into the protobuf Struct published on NATS.
func PointToStruct(point *parser.FlightPoint) (*structpb.Struct, error) {
	pointJSON, err := json.Marshal(point)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if e := json.Unmarshal(pointJSON, &fields); e != nil {
		return nil, e
	}
	return structpb.NewStruct(fields)
}

func (s *SBDServer) PublishLastPoint(point *parser.FlightPoint) {
	if s.natsConn == nil {
		return
	}
	subject := fmt.Sprintf("device.lastpoint.%s", point.IMEI)
	lastPoint, err := PointToStruct(point)
	if err != nil {
		s.log.Error("convert last point failed", zap.Error(err))
		return
	}
	lastPointByte, err := proto.Marshal(lastPoint)
	if err != nil {
		s.log.Error("marshal last point failed", zap.Error(err))
		return
	}
	if e := s.natsConn.Publish(subject, lastPointByte); e != nil {
		s.log.Error("publish last point failed", zap.Error(e))
	}
}

func (s *SBDServer) LogPoint(point *parser.FlightPoint) {
	s.log.Info("new flight point",
		zap.String("IMEI", point.IMEI),
		zap.Time("Datetime", point.Datetime),
		zap.Float64("Latitude", point.Latitude),
		zap.Float64("Longitude", point.Longitude),
		zap.Float64("Altitude", point.Altitude),
		zap.Uint8("Satellites", point.Satellites),
	)
}
