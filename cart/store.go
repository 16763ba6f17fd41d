package cart

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/models"
)

// Observer receives the full cart after every mutation.
type Observer func(Cart)

// Store keeps one durable cart per cart key. Every mutation writes the
// whole snapshot back and then notifies observers synchronously, in
// registration order. Carts survive process restarts; they are never
// shared across keys.
type Store struct {
	db *gorm.DB

	mu        sync.Mutex
	observers map[string]map[int]Observer
	nextObsID int
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		observers: make(map[string]map[int]Observer),
	}
}

// Subscribe registers an observer for the given cart key and returns a
// cancel func. Callers must cancel when their view is torn down.
func (s *Store) Subscribe(key string, fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.observers[key] == nil {
		s.observers[key] = make(map[int]Observer)
	}
	id := s.nextObsID
	s.nextObsID++
	s.observers[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers[key], id)
	}
}

// Get loads the cart for key. A missing snapshot is an empty cart.
func (s *Store) Get(key string) (Cart, error) {
	if s.db == nil {
		return Cart{}, ErrStoreUnavailable
	}

	var snap models.CartSnapshot
	if err := s.db.Where("cart_key = ?", key).First(&snap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Cart{}, nil
		}
		return Cart{}, err
	}

	var c Cart
	if err := json.Unmarshal([]byte(snap.Payload), &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// AddLine appends a line for item with the selected add-ons. The selection
// must be a subset of the item's own add-on set; there is no dedup.
func (s *Store) AddLine(key string, item models.Menu, selected []models.AddOn) error {
	line, err := newLine(item, selected)
	if err != nil {
		return err
	}

	return s.mutate(key, func(c *Cart) {
		c.Lines = append(c.Lines, line)
	})
}

// RemoveLine removes the line at index idx. Out-of-range indexes are a
// silent no-op; callers must not expect an error signal.
func (s *Store) RemoveLine(key string, idx int) error {
	return s.mutate(key, func(c *Cart) {
		if idx < 0 || idx >= len(c.Lines) {
			return
		}
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	})
}

// Clear empties the cart; used after a confirmed submission.
func (s *Store) Clear(key string) error {
	return s.mutate(key, func(c *Cart) {
		c.Lines = nil
	})
}

// SetTableNo stores the table context for key (captured from a QR scan).
func (s *Store) SetTableNo(key, tableNo string) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	var snap models.CartSnapshot
	err := s.db.Where("cart_key = ?", key).First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		snap = models.CartSnapshot{CartKey: key, Payload: emptyPayload()}
	} else if err != nil {
		return err
	}
	snap.TableNo = tableNo
	snap.UpdatedAt = time.Now()
	return s.db.Save(&snap).Error
}

// TableNo returns the stored table context for key, or "" when none.
func (s *Store) TableNo(key string) string {
	if s.db == nil {
		return ""
	}
	var snap models.CartSnapshot
	if err := s.db.Where("cart_key = ?", key).First(&snap).Error; err != nil {
		return ""
	}
	return snap.TableNo
}

// mutate loads the cart, applies fn, persists the full snapshot and then
// notifies observers synchronously. A failed write leaves the stored cart
// untouched and observers silent, so the caller can retry.
func (s *Store) mutate(key string, fn func(*Cart)) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}

	c, err := s.Get(key)
	if err != nil {
		return err
	}
	fn(&c)

	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}

	var snap models.CartSnapshot
	err = s.db.Where("cart_key = ?", key).First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		snap = models.CartSnapshot{CartKey: key}
	} else if err != nil {
		return err
	}
	snap.Payload = string(payload)
	snap.UpdatedAt = time.Now()
	if err := s.db.Save(&snap).Error; err != nil {
		return err
	}

	s.notify(key, c)
	return nil
}

func (s *Store) notify(key string, c Cart) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.observers[key]))
	for id := range s.observers[key] {
		ids = append(ids, id)
	}
	// registration order == ascending id
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	fns := make([]Observer, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[key][id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func emptyPayload() string {
	data, _ := json.Marshal(Cart{})
	return string(data)
}
