package file

import (
	"context"
	"io"
	"time"

	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

const listenerBuffer = 10

// TransferListener returns a channel of transfer updates for a source and a
// function that unsubscribes and closes it. Downloads use the file UID and
// tracked uploads the file name.
func (s *Service) TransferListener(uid string) (<-chan dto.TransferNotification, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	ch := make(chan dto.TransferNotification, listenerBuffer)
	s.listenersByUID[uid] = append(s.listenersByUID[uid], ch)

	unsub := func() {
		s.muListeners.Lock()
		defer s.muListeners.Unlock()

		chans, ok := s.listenersByUID[uid]
		if !ok {
			return
		}
		out := chans[:0]
		found := false
		for _, c := range chans {
			if c == ch {
				found = true
				continue
			}
			out = append(out, c)
		}
		if !found {
			return
		}
		if len(out) == 0 {
			delete(s.listenersByUID, uid)
		} else {
			s.listenersByUID[uid] = out
		}
		close(ch)
	}

	return ch, unsub
}

// TransferListenerClose closes all channels for a given UID.
func (s *Service) TransferListenerClose(uid string) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	if chans, ok := s.listenersByUID[uid]; ok {
		for _, c := range chans {
			close(c)
		}
		delete(s.listenersByUID, uid)
	}
}

// TransferState returns the last update of every transfer, keyed by source.
func (s *Service) TransferState() map[string]dto.TransferNotification {
	return s.transferState.GetAll()
}

func (s *Service) publishTransferUpdate(state dto.TransferNotification) {
	s.transferState.Set(state.Source, state)

	s.muListeners.Lock()
	listeners := append([]chan dto.TransferNotification(nil), s.listenersByUID[state.Source]...)
	s.muListeners.Unlock()

	terminal := state.IsTerminal()
	for _, ch := range listeners {
		if !terminal {
			// progress may be dropped
			select {
			case ch <- state:
			default:
			}
			continue
		}
		select {
		case ch <- state:
		default:
			go func(c chan dto.TransferNotification, n dto.TransferNotification) {
				// the listener may unsubscribe before this lands
				defer func() { _ = recover() }()
				c <- n
			}(ch, state)
		}
	}

	s.relay.Info(relays.RlyFileTransfer{
		Source:      state.Source,
		Destination: state.Destination,
		Status:      state.Status,
		Percentage:  state.Percentage,
		Msg:         state.Message,
	})
}

type progressReader struct {
	ctx        context.Context
	reader     io.Reader
	total      int64
	readSoFar  int64
	lastReport time.Time
	interval   time.Duration
	onProgress func(downloaded, total int64, percent float64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	select {
	case <-pr.ctx.Done():
		return 0, pr.ctx.Err()
	default:
	}

	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.readSoFar += int64(n)
		if now := time.Now(); now.Sub(pr.lastReport) >= pr.interval {
			pr.onProgress(pr.readSoFar, pr.total, percentOf(pr.readSoFar, pr.total))
			pr.lastReport = now
		}
	}
	return n, err
}

func percentOf(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(done) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
