package clickhouse

import (
	"context"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/openfms/sbd-device/parser"
)

//go:generate mockgen -source=$GOFILE -destination=mock_db/conn.go -package=mock_db
type FlightDBConn interface {
	GetConn() driver.Conn
	SaveRawData(ctx context.Context, imei, payload string) error
	SaveFlightPoints(ctx context.Context, points []*parser.FlightPoint) error
}

var _ FlightDBConn = &FlightDataBase{}

type FlightDataBase struct {
	ClickhouseConn driver.Conn
}

func (fdb *FlightDataBase) GetConn() driver.Conn {
	return fdb.ClickhouseConn
}

// ConnectFlightDB opens a pooled LZ4 connection to the flight store and pings it.
func ConnectFlightDB(ctx context.Context, databaseURL string) (*FlightDataBase, error) {
	opts, err := clickhouse.ParseDSN(databaseURL)
	if err != nil {
		return nil, err
	}
	opts.DialContext = func(ctx context.Context, addr string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	}
	opts.Compression = &clickhouse.Compression{
		Method: clickhouse.CompressionLZ4,
	}
	opts.DialTimeout = time.Second * 30
	opts.MaxOpenConns = 5
	opts.MaxIdleConns = 5
	opts.ConnMaxLifetime = time.Duration(10) * time.Minute
	opts.ConnOpenStrategy = clickhouse.ConnOpenInOrder

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if e := conn.Ping(ctx); e != nil {
		return nil, e
	}
	return &FlightDataBase{
		ClickhouseConn: conn,
	}, nil
}
