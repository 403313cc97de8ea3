package timeline

import (
	"sort"
	"sync"
	"time"

	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
)

// BucketView is one non-empty bucket with its records ordered by
// created_at ascending.
type BucketView struct {
	Bucket  Bucket          `json:"bucket"`
	Records []models.Record `json:"records"`
}

// BucketedList is an immutable snapshot of a room timeline. Buckets appear
// in ascending-age order with empty buckets skipped; rendering direction is
// the consumer's choice.
type BucketedList struct {
	RoomKey string       `json:"room_key"`
	Buckets []BucketView `json:"buckets"`
}

// Materializer maintains the bucketed projection of a single room's
// records. Upstream delivery is at-least-once, so additions are deduplicated
// by record id with the first delivery winning. All methods are safe for
// concurrent use.
type Materializer struct {
	mu      sync.Mutex
	roomKey string
	scheme  Scheme
	clock   func() time.Time
	seen    map[string]struct{}
	byID    map[string]*models.Record
	ordered []*models.Record
}

// NewMaterializer creates an empty materializer for a room.
func NewMaterializer(roomKey string, scheme Scheme) *Materializer {
	return &Materializer{
		roomKey: roomKey,
		scheme:  scheme,
		clock:   time.Now,
		seen:    make(map[string]struct{}),
		byID:    make(map[string]*models.Record),
	}
}

// SetClock overrides the wall clock, for tests.
func (m *Materializer) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// RoomKey returns the room this materializer projects.
func (m *Materializer) RoomKey() string {
	return m.roomKey
}

// OnRecordAdded inserts a record in created_at order. A record id that was
// already delivered is absorbed silently, keeping the first payload.
func (m *Materializer) OnRecordAdded(r models.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.seen[r.ID]; dup {
		observability.IncTimelineDiscard("duplicate")
		return
	}
	m.seen[r.ID] = struct{}{}

	stored := r
	m.byID[r.ID] = &stored
	idx := sort.Search(len(m.ordered), func(i int) bool {
		if m.ordered[i].CreatedAt.Equal(stored.CreatedAt) {
			return m.ordered[i].ID > stored.ID
		}
		return m.ordered[i].CreatedAt.After(stored.CreatedAt)
	})
	m.ordered = append(m.ordered, nil)
	copy(m.ordered[idx+1:], m.ordered[idx:])
	m.ordered[idx] = &stored
}

// OnRecordChanged swaps the stored payload. CreatedAt is immutable by
// contract, so ordering never changes.
func (m *Materializer) OnRecordChanged(r models.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[r.ID]
	if !ok {
		return
	}
	stored.Content = r.Content
	stored.GameType = r.GameType
	stored.Kind = r.Kind
}

// OnRecordRemoved drops the record from the collection and the seen set.
func (m *Materializer) OnRecordRemoved(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return
	}
	delete(m.byID, id)
	delete(m.seen, id)
	for i, r := range m.ordered {
		if r.ID == id {
			m.ordered = append(m.ordered[:i], m.ordered[i+1:]...)
			break
		}
	}
}

// OnRecordMoved is a change with a no-op reorder, since the ordering key
// never mutates.
func (m *Materializer) OnRecordMoved(r models.Record) {
	m.OnRecordChanged(r)
}

// Apply routes a record event to the matching handler.
func (m *Materializer) Apply(ev models.RecordEvent) {
	switch ev.Type {
	case models.EventRecordAdded:
		if ev.Record != nil {
			m.OnRecordAdded(*ev.Record)
		}
	case models.EventRecordChanged:
		if ev.Record != nil {
			m.OnRecordChanged(*ev.Record)
		}
	case models.EventRecordMoved:
		if ev.Record != nil {
			m.OnRecordMoved(*ev.Record)
		}
	case models.EventRecordRemoved:
		id := ev.RecordID
		if id == "" && ev.Record != nil {
			id = ev.Record.ID
		}
		m.OnRecordRemoved(id)
	}
}

// Len reports the number of retained records.
func (m *Materializer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ordered)
}

// Materialize recomputes every record's bucket against the current clock
// and returns an immutable snapshot. Bucket membership is time-dependent,
// so callers refresh on resume or on a periodic trigger even without new
// records.
func (m *Materializer) Materialize() BucketedList {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	grouped := make(map[Bucket][]models.Record)
	for _, r := range m.ordered {
		b := m.scheme.Classify(r.CreatedAt, now)
		grouped[b] = append(grouped[b], *r)
	}

	list := BucketedList{RoomKey: m.roomKey}
	for _, def := range m.scheme {
		records, ok := grouped[def.Bucket]
		if !ok {
			continue
		}
		list.Buckets = append(list.Buckets, BucketView{Bucket: def.Bucket, Records: records})
	}
	observability.IncTimelineMaterialize()
	return list
}
