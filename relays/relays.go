package relays

import (
	"log/slog"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/dto"
)

const RlyChannel relayDTO.EventChannel = "walacor"

const (
	RlyLogRef       relayDTO.EventRef = "walacor.log"
	RlyTransportRef relayDTO.EventRef = "walacor.transport"
	RlyAuthRef      relayDTO.EventRef = "walacor.auth"
	RlyServiceRef   relayDTO.EventRef = "walacor.service"
	RlyTransferRef  relayDTO.EventRef = "walacor.transfer"
)

// RlyLog is a free form message.
type RlyLog struct {
	Msg string
}

func (e RlyLog) RelayChannel() relayDTO.EventChannel { return RlyChannel }
func (e RlyLog) RelayType() relayDTO.EventRef        { return RlyLogRef }
func (e RlyLog) Message() string                     { return e.Msg }
func (e RlyLog) ToSlog() []slog.Attr                 { return nil }

// RlyTransport describes one HTTP exchange with the platform.
type RlyTransport struct {
	RequestID string
	Method    string
	Path      string
	Status    int
	Attempt   int
	Elapsed   time.Duration
	Msg       string
}

func (e RlyTransport) RelayChannel() relayDTO.EventChannel { return RlyChannel }
func (e RlyTransport) RelayType() relayDTO.EventRef        { return RlyTransportRef }
func (e RlyTransport) Message() string                     { return e.Msg }
func (e RlyTransport) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("request_id", e.RequestID),
		slog.String("method", e.Method),
		slog.String("path", e.Path),
	}
	if e.Status != 0 {
		attrs = append(attrs, slog.Int("status", e.Status))
	}
	if e.Attempt != 0 {
		attrs = append(attrs, slog.Int("attempt", e.Attempt))
	}
	if e.Elapsed != 0 {
		attrs = append(attrs, slog.Duration("elapsed", e.Elapsed))
	}
	return attrs
}

// RlyAuth reports login attempts. It never carries the token.
type RlyAuth struct {
	Username string
	Status   int
	Msg      string
}

func (e RlyAuth) RelayChannel() relayDTO.EventChannel { return RlyChannel }
func (e RlyAuth) RelayType() relayDTO.EventRef        { return RlyAuthRef }
func (e RlyAuth) Message() string                     { return e.Msg }
func (e RlyAuth) ToSlog() []slog.Attr {
	attrs := []slog.Attr{slog.String("username", e.Username)}
	if e.Status != 0 {
		attrs = append(attrs, slog.Int("status", e.Status))
	}
	return attrs
}

// RlyService is emitted by the typed services, mostly for recovered failures.
type RlyService struct {
	Service string
	Op      string
	ETId    int
	Msg     string
	Err     error
}

func (e RlyService) RelayChannel() relayDTO.EventChannel { return RlyChannel }
func (e RlyService) RelayType() relayDTO.EventRef        { return RlyServiceRef }
func (e RlyService) Message() string                     { return e.Msg }
func (e RlyService) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("service", e.Service),
		slog.String("op", e.Op),
	}
	if e.ETId != 0 {
		attrs = append(attrs, slog.Int("etid", e.ETId))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// RlyFileTransfer mirrors a dto.TransferNotification.
type RlyFileTransfer struct {
	Source      string
	Destination string
	Status      dto.TransferStatus
	Percentage  float64
	Msg         string
}

func (e RlyFileTransfer) RelayChannel() relayDTO.EventChannel { return RlyChannel }
func (e RlyFileTransfer) RelayType() relayDTO.EventRef        { return RlyTransferRef }
func (e RlyFileTransfer) Message() string                     { return e.Msg }
func (e RlyFileTransfer) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("source", e.Source),
		slog.String("destination", e.Destination),
		slog.String("status", string(e.Status)),
		slog.Float64("percentage", e.Percentage),
	}
}
