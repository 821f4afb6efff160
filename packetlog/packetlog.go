package packetlog

import (
	"sync"

	"github.com/openfms/sbd-device/parser"
	"golang.org/x/exp/slices"
)

type Status string

const (
	StatusAccept Status = "accept"
	StatusReject Status = "reject"
	StatusError  Status = "error"
)

// Meta is what the assignment service said about an accepted point.
type Meta struct {
	Type   string `json:"type"`
	Flight any    `json:"flight"`
}

type Entry struct {
	ID      int                 `json:"id"`
	Status  Status              `json:"status"`
	Data    *parser.FlightPoint `json:"data"`
	Explain string              `json:"explain,omitempty"`
	Meta    *Meta               `json:"meta,omitempty"`
}

// RotaryID hands out ids that cycle through 0..total-1.
type RotaryID struct {
	id    int
	total int
}

func NewRotaryID(total int) *RotaryID {
	if total < 1 {
		total = 1
	}
	return &RotaryID{total: total}
}

// Generate advances to the next id and returns it.
func (r *RotaryID) Generate() int {
	r.id = (r.id + 1) % r.total
	return r.id
}

func (r *RotaryID) Current() int {
	return r.id
}

// After returns the id that follows id in the cycle.
func (r *RotaryID) After(id int) int {
	return (id + 1) % r.total
}

// PacketLog keeps the last length history entries for the dashboard.
// Ids come from a rotary id of length+1, so the ids present at any time are unique.
type PacketLog struct {
	mu      sync.RWMutex
	entries []Entry
	length  int
	ids     *RotaryID
	enabled bool
}

func New(length int, enabled bool) *PacketLog {
	if length < 0 {
		length = 0
	}
	return &PacketLog{
		entries: make([]Entry, 0, length),
		length:  length,
		ids:     NewRotaryID(length + 1),
		enabled: enabled,
	}
}

// Record stamps entry with the next id, appends it and evicts the oldest
// entries beyond the log length.
func (pl *PacketLog) Record(entry Entry) int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	entry.ID = pl.ids.Generate()
	pl.entries = append(pl.entries, entry)
	if over := len(pl.entries) - pl.length; over > 0 {
		pl.entries = slices.Delete(pl.entries, 0, over)
	}
	return entry.ID
}

func (pl *PacketLog) Enable(state bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.enabled = state
}

func (pl *PacketLog) IsEnabled() bool {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return pl.enabled
}

// Entries returns a copy of the log, oldest first.
func (pl *PacketLog) Entries() []Entry {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return append(make([]Entry, 0, len(pl.entries)), pl.entries...)
}

func (pl *PacketLog) PresentIDs() []int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	ids := make([]int, 0, len(pl.entries))
	for _, entry := range pl.entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

// SubLog returns the entries whose id is in ids, in log order.
func (pl *PacketLog) SubLog(ids []int) []Entry {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	sub := make([]Entry, 0)
	for _, entry := range pl.entries {
		if slices.Contains(ids, entry.ID) {
			sub = append(sub, entry)
		}
	}
	return sub
}

// Updates returns the entries a client holding clientIDs has not seen yet.
func (pl *PacketLog) Updates(clientIDs []int) []Entry {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	update := make([]Entry, 0)
	for _, entry := range pl.entries {
		if !slices.Contains(clientIDs, entry.ID) {
			update = append(update, entry)
		}
	}
	return update
}
