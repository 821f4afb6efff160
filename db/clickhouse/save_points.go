package clickhouse

import (
	"context"
	"time"

	"github.com/openfms/sbd-device/parser"
)

type FlightPointColumns struct {
	IMEI             string    `ch:"imei"`
	Timestamp        time.Time `ch:"timestamp"`
	Latitude         float64   `ch:"latitude"`
	Longitude        float64   `ch:"longitude"`
	Altitude         float64   `ch:"altitude"`
	VerticalVelocity float64   `ch:"vertical_velocity"`
	GroundSpeed      float64   `ch:"ground_speed"`
	Satellites       uint8     `ch:"satellites"`
	OutputPins       uint8     `ch:"output_pins"`
	InputPins        uint8     `ch:"input_pins"`
}

const insertFlightPointQuery = `
	INSERT INTO
	    flightpoints(imei, timestamp, latitude, longitude, altitude, vertical_velocity, ground_speed, satellites, output_pins, input_pins)
	VALUES (?,?,?,?,?,?,?,?,?,?);
`

// SaveFlightPoints saves flight points to clickhouse
func (fdb *FlightDataBase) SaveFlightPoints(ctx context.Context, points []*parser.FlightPoint) error {
	batch, err := fdb.ClickhouseConn.PrepareBatch(ctx, insertFlightPointQuery)
	if err != nil {
		return err
	}
	for _, point := range points {
		err := batch.AppendStruct(&FlightPointColumns{
			IMEI:             point.IMEI,
			Timestamp:        point.Datetime,
			Latitude:         point.Latitude,
			Longitude:        point.Longitude,
			Altitude:         point.Altitude,
			VerticalVelocity: point.VerticalVelocity,
			GroundSpeed:      point.GroundSpeed,
			Satellites:       point.Satellites,
			OutputPins:       point.OutputPins,
			InputPins:        point.InputPins,
		})
		if err != nil {
			return err
		}
	}
	return batch.Send()
}
