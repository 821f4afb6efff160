package parser

import "time"

// FlightPoint is one frame in time and space of a tracked flight.
type FlightPoint struct {
	Datetime         time.Time `json:"datetime"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Altitude         float64   `json:"altitude"`
	VerticalVelocity float64   `json:"vertical_velocity"`
	GroundSpeed      float64   `json:"ground_speed"`
	Satellites       uint8     `json:"satellites"`
	IMEI             string    `json:"imei"`
	OutputPins       uint8     `json:"output_pins"`
	InputPins        uint8     `json:"input_pins"`
}

// NewFlightPoint combines the GPS report of msg with the IMEI of its header.
func NewFlightPoint(msg *Message) (*FlightPoint, error) {
	if msg == nil || msg.Payload == nil || msg.Header == nil {
		return nil, ErrNoFlightData
	}
	report := msg.Payload
	return &FlightPoint{
		Datetime:         report.Time,
		Latitude:         report.Latitude,
		Longitude:        report.Longitude,
		Altitude:         report.Altitude,
		VerticalVelocity: report.VerticalVelocity,
		GroundSpeed:      report.GroundSpeed,
		Satellites:       report.Satellites,
		IMEI:             msg.Header.IMEI,
		OutputPins:       report.OutputPins,
		InputPins:        report.InputPins,
	}, nil
}

// Valid reports whether the point saw enough satellites to be forwarded.
func (p *FlightPoint) Valid(minSatellites uint8) bool {
	return p.Satellites >= minSatellites
}
