package bough

// Signal is a typed observer list. Slots are called synchronously, in the
// order they were connected.
type Signal[T any] struct {
	slots    []signalSlot[T]
	nextID   uint32
	emitting int
	removed  bool
}

type signalSlot[T any] struct {
	id uint32
	fn func(T)
}

// Connection allows removing a slot connected to a Signal.
type Connection struct {
	id     uint32
	remove func(id uint32)
}

// Disconnect removes the slot so it no longer fires. Safe to call more than
// once and from inside the slot itself.
func (c Connection) Disconnect() {
	if c.remove != nil {
		c.remove(c.id)
	}
}

// Connected reports whether the connection refers to a slot.
func (c Connection) Connected() bool {
	return c.remove != nil
}

// Connect appends fn to the slot list.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	if fn == nil {
		panic("bough: cannot connect nil slot")
	}
	s.nextID++
	id := s.nextID
	s.slots = append(s.slots, signalSlot[T]{id: id, fn: fn})
	return Connection{id: id, remove: s.disconnect}
}

// Emit calls every connected slot with v.
func (s *Signal[T]) Emit(v T) {
	s.emitting++
	for i := 0; i < len(s.slots); i++ {
		if fn := s.slots[i].fn; fn != nil {
			fn(v)
		}
	}
	s.emitting--
	if s.emitting == 0 && s.removed {
		s.compact()
	}
}

// NumSlots returns the number of connected slots.
func (s *Signal[T]) NumSlots() int {
	n := 0
	for _, sl := range s.slots {
		if sl.fn != nil {
			n++
		}
	}
	return n
}

// DisconnectAll removes every slot.
func (s *Signal[T]) DisconnectAll() {
	if s.emitting > 0 {
		for i := range s.slots {
			s.slots[i].fn = nil
		}
		s.removed = true
		return
	}
	clear(s.slots)
	s.slots = s.slots[:0]
}

func (s *Signal[T]) disconnect(id uint32) {
	for i := range s.slots {
		if s.slots[i].id != id {
			continue
		}
		if s.emitting > 0 {
			// Slots are compacted once the outermost Emit returns.
			s.slots[i].fn = nil
			s.removed = true
			return
		}
		copy(s.slots[i:], s.slots[i+1:])
		s.slots[len(s.slots)-1] = signalSlot[T]{}
		s.slots = s.slots[:len(s.slots)-1]
		return
	}
}

func (s *Signal[T]) compact() {
	kept := s.slots[:0]
	for _, sl := range s.slots {
		if sl.fn != nil {
			kept = append(kept, sl)
		}
	}
	clear(s.slots[len(kept):])
	s.slots = kept
	s.removed = false
}
