package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/openfms/sbd-device/assign"
	"github.com/openfms/sbd-device/cache"
	"github.com/openfms/sbd-device/db/clickhouse"
	"github.com/openfms/sbd-device/packetlog"
	"github.com/openfms/sbd-device/parser"
	"go.uber.org/zap"
)

type Empty struct{}

const (
	readBufferSize       = 2048
	DefaultMinSatellites = 4
	DefaultLogLength     = 100
)

type SBDServer struct {
	listenAddr string
	ln         net.Listener
	quitChan   chan Empty
	stopOnce   sync.Once
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	log        *zap.Logger

	connsMu sync.Mutex
	conns   map[net.Conn]Empty

	scanner       *parser.MessageScanner
	decoder       *parser.Decoder
	sbdLog        *zap.Logger
	natsConn      *nats.Conn
	flightDB      clickhouse.FlightDBConn
	lastPoints    cache.LastPointCache
	assigner      assign.Assigner
	packetLog     *packetlog.PacketLog
	metrics       *Metrics
	minSatellites uint8
}

// Dependencies are the collaborators of the message pipeline. Nil sinks are skipped.
type Dependencies struct {
	NatsConn      *nats.Conn
	FlightDB      clickhouse.FlightDBConn
	LastPoints    cache.LastPointCache
	Assigner      assign.Assigner
	PacketLog     *packetlog.PacketLog
	Metrics       *Metrics
	SBDLog        *zap.Logger
	MinSatellites uint8
}

type TcpServerInterface interface {
	Start()
	Stop()
}

var (
	_ TcpServerInterface = &SBDServer{}
)

func NewServer(listenAddr string, logger *zap.Logger, deps Dependencies) *SBDServer {
	if deps.PacketLog == nil {
		deps.PacketLog = packetlog.New(DefaultLogLength, true)
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(nil)
	}
	if deps.SBDLog == nil {
		deps.SBDLog = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SBDServer{
		listenAddr:    listenAddr,
		quitChan:      make(chan Empty),
		ctx:           ctx,
		cancel:        cancel,
		log:           logger,
		conns:         make(map[net.Conn]Empty),
		scanner:       parser.NewMessageScanner(parser.MaxMessageLength),
		decoder:       &parser.Decoder{},
		sbdLog:        deps.SBDLog,
		natsConn:      deps.NatsConn,
		flightDB:      deps.FlightDB,
		lastPoints:    deps.LastPoints,
		assigner:      deps.Assigner,
		packetLog:     deps.PacketLog,
		metrics:       deps.Metrics,
		minSatellites: deps.MinSatellites,
	}
}

func (s *SBDServer) PacketLog() *packetlog.PacketLog {
	return s.packetLog
}

func (s *SBDServer) Start() {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		s.log.Error("failed to listen", zap.Error(err))
		return
	}
	defer ln.Close()
	s.ln = ln

	go s.acceptConnections()
	s.log.Info("listening for SBD packets",
		zap.String("ListenAddress", s.listenAddr),
	)
	<-s.quitChan
}

func (s *SBDServer) acceptConnections() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Error("accept connection error", zap.Error(err))
			continue
		}
		if !s.trackConn(conn) {
			conn.Close()
			return
		}
		s.log.Info("new Connection to the server", zap.String("Address", conn.RemoteAddr().String()))
		go s.HandleConnection(conn)
	}
}

func (s *SBDServer) trackConn(conn net.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	select {
	case <-s.quitChan:
		return false
	default:
	}
	s.conns[conn] = Empty{}
	s.wg.Add(1)
	return true
}

func (s *SBDServer) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
	conn.Close()
}

// HandleConnection reads the stream of one gateway connection and processes
// every framed message. A bad frame drops the buffered bytes but keeps the
// connection; read errors end it.
func (s *SBDServer) HandleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrackConn(conn)
	s.metrics.OpenConnections.Inc()
	defer s.metrics.OpenConnections.Dec()

	var pending []byte
	buf := make([]byte, readBufferSize)
	for {
		size, err := conn.Read(buf)
		if size > 0 {
			s.log.Debug("packet received",
				zap.String("ip", conn.RemoteAddr().String()),
				zap.Int("size", size),
			)
			pending = s.drainFrames(append(pending, buf[:size]...), false)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Error("read failed", zap.Error(err))
			}
			if len(pending) > 0 {
				s.drainFrames(pending, true)
			}
			return
		}
	}
}

func (s *SBDServer) drainFrames(pending []byte, atEOF bool) []byte {
	for len(pending) > 0 {
		advance, token, err := s.scanner.SplitFunc(pending, atEOF)
		if err != nil {
			s.metrics.FramingErrors.Inc()
			s.log.Warn("dropping unframed bytes",
				zap.Error(err),
				zap.Int("size", len(pending)),
			)
			s.recordEntry(packetlog.Entry{Status: packetlog.StatusError, Explain: err.Error()})
			return nil
		}
		if advance == 0 {
			break
		}
		pending = pending[advance:]
		if token != nil {
			s.ProcessMessage(s.ctx, token)
		}
	}
	return pending
}

func (s *SBDServer) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.connsMu.Lock()
		close(s.quitChan)
		for conn := range s.conns {
			conn.Close()
		}
		s.connsMu.Unlock()
	})
	s.wg.Wait()
	s.log.Info("stop server")
}
