package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Modem imitates an Iridium gateway forwarding the MO messages of one modem.
type Modem struct {
	serverAddr, imei string
	conn             net.Conn
	wg               sync.WaitGroup
	log              *zap.Logger
	randomizer       *rand.Rand
	momsn            uint16
}

type ModemInterface interface {
	Connect() error
	Stop()
	SendMessage(data []byte) error
	SendRandomMessages(ctx context.Context, interval time.Duration)
}

var (
	_ ModemInterface = &Modem{}
)

func NewModem(serverAddr, imei string, logger *zap.Logger) *Modem {
	return &Modem{
		serverAddr: serverAddr,
		imei:       imei,
		wg:         sync.WaitGroup{},
		log:        logger,
		randomizer: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *Modem) Connect() error {
	conn, err := net.Dial("tcp", m.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to dial server: %w", err)
	}
	m.conn = conn
	return nil
}

func (m *Modem) Stop() {
	m.wg.Wait()
	if m.conn != nil {
		m.conn.Close()
	}
	m.log.Info("stop modem simulator", zap.String("imei", m.imei))
}
