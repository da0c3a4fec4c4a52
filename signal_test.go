package bough

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalEmitOrder(t *testing.T) {
	var s Signal[int]
	var log []int
	s.Connect(func(v int) { log = append(log, v) })
	s.Connect(func(v int) { log = append(log, v*10) })

	s.Emit(2)
	assert.Equal(t, []int{2, 20}, log)
	assert.Equal(t, 2, s.NumSlots())
}

func TestSignalDisconnect(t *testing.T) {
	var s Signal[string]
	var calls int
	c := s.Connect(func(string) { calls++ })
	assert.True(t, c.Connected())

	c.Disconnect()
	c.Disconnect()
	s.Emit("x")
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.NumSlots())
	assert.False(t, Connection{}.Connected())
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var log []string
	var second Connection
	s.Connect(func(int) {
		log = append(log, "first")
		second.Disconnect()
	})
	second = s.Connect(func(int) { log = append(log, "second") })
	s.Connect(func(int) { log = append(log, "third") })

	s.Emit(0)
	assert.Equal(t, []string{"first", "third"}, log)
	assert.Equal(t, 2, s.NumSlots())

	log = nil
	s.Emit(0)
	assert.Equal(t, []string{"first", "third"}, log)
}

func TestSignalSelfDisconnect(t *testing.T) {
	var s Signal[int]
	var calls int
	var c Connection
	c = s.Connect(func(int) {
		calls++
		c.Disconnect()
	})
	s.Emit(0)
	s.Emit(0)
	assert.Equal(t, 1, calls)
}

func TestSignalConnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var log []string
	s.Connect(func(int) {
		if len(log) == 0 {
			s.Connect(func(int) { log = append(log, "late") })
		}
		log = append(log, "early")
	})

	s.Emit(0)
	assert.Equal(t, []string{"early", "late"}, log)
}

func TestSignalDisconnectAll(t *testing.T) {
	var s Signal[int]
	var calls int
	s.Connect(func(int) { calls++ })
	s.Connect(func(int) {
		calls++
		s.DisconnectAll()
	})
	s.Connect(func(int) { calls++ })

	s.Emit(0)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, s.NumSlots())

	s.Connect(func(int) { calls++ })
	s.DisconnectAll()
	s.Emit(0)
	assert.Equal(t, 2, calls)
}

func TestSignalConnectNilPanics(t *testing.T) {
	var s Signal[int]
	assert.Panics(t, func() { s.Connect(nil) })
}
