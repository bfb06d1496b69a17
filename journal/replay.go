package journal

import (
	"github.com/Monnoroch/blockstream/stream"
)

type replaySource struct {
	j    Journal
	from uint
	to   int
}

func (s replaySource) Subscribe(obs stream.Observer[[]byte]) {
	evts, err := s.j.Read(s.from, s.to)
	if err != nil {
		stream.Fail[[]byte](err).Subscribe(obs)
		return
	}
	stream.List(evts).Subscribe(obs)
}

// Replay the journalled events in [@from:@to) as a source.
// @to == -1 means to the end.
// The journal is read once for every subscriber, at subscription time.
func Replay(j Journal, from uint, to int) stream.Source[[]byte] {
	return replaySource{j, from, to}
}
