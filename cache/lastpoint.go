package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openfms/sbd-device/parser"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

var ErrPointNotFound = errors.New("last point not found")

//go:generate mockgen -source=$GOFILE -destination=mock_cache/lastpoint.go -package=mock_cache
type LastPointCache interface {
	SetLastPoint(ctx context.Context, point *parser.FlightPoint) error
	LastPoint(ctx context.Context, imei string) (*parser.FlightPoint, error)
}

var _ LastPointCache = &RedisCache{}

// RedisCache keeps the newest flight point of every modem as a redis hash.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// url and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if e := client.Ping(ctx).Err(); e != nil {
		_ = client.Close()
		return nil, e
	}
	return client, nil
}

func LastPointKey(imei string) string {
	return fmt.Sprintf("sbd:lastpoint:%s", imei)
}

func (rc *RedisCache) SetLastPoint(ctx context.Context, point *parser.FlightPoint) error {
	key := LastPointKey(point.IMEI)
	values := make(map[string]interface{})
	for name, value := range pointFields(point) {
		values[name] = value
	}
	pipe := rc.client.TxPipeline()
	pipe.HSet(ctx, key, values)
	pipe.Expire(ctx, key, rc.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (rc *RedisCache) LastPoint(ctx context.Context, imei string) (*parser.FlightPoint, error) {
	fields, err := rc.client.HGetAll(ctx, LastPointKey(imei)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPointNotFound, imei)
	}
	return parsePointFields(fields)
}

func pointFields(p *parser.FlightPoint) map[string]string {
	return map[string]string{
		"imei":              p.IMEI,
		"datetime":          p.Datetime.UTC().Format(time.RFC3339Nano),
		"latitude":          formatFloat(p.Latitude),
		"longitude":         formatFloat(p.Longitude),
		"altitude":          formatFloat(p.Altitude),
		"vertical_velocity": formatFloat(p.VerticalVelocity),
		"ground_speed":      formatFloat(p.GroundSpeed),
		"satellites":        strconv.FormatUint(uint64(p.Satellites), 10),
		"output_pins":       strconv.FormatUint(uint64(p.OutputPins), 10),
		"input_pins":        strconv.FormatUint(uint64(p.InputPins), 10),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parsePointFields(fields map[string]string) (*parser.FlightPoint, error) {
	fp := &fieldParser{fields: fields}
	point := &parser.FlightPoint{
		IMEI:             fields["imei"],
		Latitude:         fp.float("latitude"),
		Longitude:        fp.float("longitude"),
		Altitude:         fp.float("altitude"),
		VerticalVelocity: fp.float("vertical_velocity"),
		GroundSpeed:      fp.float("ground_speed"),
		Satellites:       fp.uint8("satellites"),
		OutputPins:       fp.uint8("output_pins"),
		InputPins:        fp.uint8("input_pins"),
	}
	if fp.err != nil {
		return nil, fp.err
	}
	datetime, err := time.Parse(time.RFC3339Nano, fields["datetime"])
	if err != nil {
		return nil, fmt.Errorf("datetime: %w", err)
	}
	point.Datetime = datetime
	return point, nil
}

// fieldParser remembers the first conversion error.
type fieldParser struct {
	fields map[string]string
	err    error
}

func (fp *fieldParser) float(name string) float64 {
	v, err := strconv.ParseFloat(fp.fields[name], 64)
	if err != nil && fp.err == nil {
		fp.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (fp *fieldParser) uint8(name string) uint8 {
	v, err := strconv.ParseUint(fp.fields[name], 10, 8)
	if err != nil && fp.err == nil {
		fp.err = fmt.Errorf("%s: %w", name, err)
	}
	return uint8(v)
}
