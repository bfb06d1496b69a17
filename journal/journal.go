// Package journal provides append-only event logs behind pluggable storage backends.
package journal

import (
	"github.com/Monnoroch/blockstream/errors"
)

/// Interface for an append-only log of events
type Journal interface {
	/// Append an event to the journal
	Append(evt []byte) error
	/// Read the events in [@from:@to).
	/// @to == -1 means to the end
	Read(from uint, to int) ([][]byte, error)
	/// Get the number of events in the journal
	Len() (uint, error)
	/// Close the journal handler
	Close() error
}

/// Journal storage handler interface
type Store interface {
	/// Get store config
	Config() (interface{}, error)
	/// List all available journals
	Journals() ([]string, error)
	/// Get a journal handler for the @name
	Journal(name string) (Journal, error)
	/// Delete all journals and supporting databases
	Drop() error
	/// Close the store handler
	Close() error
}

func convRange(from int, to int, l int, fn string) (uint, uint, error) {
	if to < 0 {
		to = l + 1 + to
	}
	if from < 0 {
		from = l + 1 + from
	}

	if from > l {
		return 0, 0, errors.Newf("%s: from:%v > len:%v", fn, from, l)
	}
	if to > l {
		return 0, 0, errors.Newf("%s: to:%v > len:%v", fn, to, l)
	}
	if from > to {
		return 0, 0, errors.Newf("%s: from:%v > to:%v", fn, from, to)
	}
	return uint(from), uint(to), nil
}
