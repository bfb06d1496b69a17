package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test that WrapEx(e).Reason() is e.
func TestWrapEx(t *testing.T) {
	examples := []error{New(""), New("1"), New("abcdef")}
	for _, e := range examples {
		assert.Same(t, e, WrapEx(e).Reason())
	}
}

// Test that Ex(e).Reason() is the same as New(e).
func TestEx(t *testing.T) {
	examples := []string{"", "1", "abcdef"}
	for _, es := range examples {
		assert.Equal(t, New(es), Ex(es).Reason())
	}
}

// Test that AsEx(nil) is nil.
func TestAsExNil(t *testing.T) {
	assert.Nil(t, AsEx(nil))
}

// Test that AsEx(e).Reason() for usual error e is e.
func TestAsEx(t *testing.T) {
	examples := []string{"", "1", "abcdef"}
	for _, es := range examples {
		e := New(es)
		asEx := AsEx(e)
		if asEx, ok := asEx.(ExError); ok {
			assert.Same(t, e, asEx.Reason())
		} else {
			t.Error(fmt.Sprintf("Expected %v to be of type ExError.", asEx))
		}
	}
}

// Test that AsEx(e) for exception e is e.
func TestAsExEx(t *testing.T) {
	examples := []string{"", "1", "abcdef"}
	for _, es := range examples {
		e := Ex(es)
		assert.Equal(t, e, AsEx(e))
	}
}

// Test that AsEx(e) for interruption e is e.
func TestAsExInterrupted(t *testing.T) {
	examples := []string{"", "1", "abcdef"}
	for _, es := range examples {
		e := Interrupted(New(es))
		assert.Equal(t, e, AsEx(e))
	}
}

// Test exception error message.
// TODO: check stack part of the message.
func TestExError(t *testing.T) {
	examples := []string{"", "1", "abcdef"}
	for _, es := range examples {
		assert.True(t, strings.HasPrefix(Ex(es).Error(), es+"\n"))
	}
}

// Test that errors.Is() sees through the exception.
func TestExIs(t *testing.T) {
	e := New("1")
	assert.True(t, errors.Is(WrapEx(e), e))
	assert.False(t, errors.Is(WrapEx(New("2")), e))
}

func deepRec(n uint, cb func()) {
	if n == 0 {
		cb()
		return
	}
	deepRec(n-1, cb)
}

// Test stack trace.
// TODO: check the stack.
func TestStack(t *testing.T) {
	_ = Stack(0)
	_ = Stack(1)
	_ = Stack(100)
	// Test buffer resizing in Stack():
	deepRec(100, func() {
		_ = Stack(0)
	})
}
