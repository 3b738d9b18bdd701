package relays

import (
	"io"
	"os"
	"strings"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/rs/zerolog"
)

// ZerologRelay writes relay events as structured zerolog lines.
type ZerologRelay struct {
	logger zerolog.Logger
}

// NewZerologRelay builds a relay writing to out at the given level name
// (debug, info, warn, error). Unknown or empty levels fall back to info.
func NewZerologRelay(out io.Writer, level string, console bool) *ZerologRelay {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if out == nil {
		out = os.Stderr
	}
	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return &ZerologRelay{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
	}
}

// NewNopRelay discards every event.
func NewNopRelay() *ZerologRelay {
	return &ZerologRelay{logger: zerolog.Nop()}
}

func (r *ZerologRelay) Debug(data relayDTO.RelayEventInterface) { r.write(zerolog.DebugLevel, data) }
func (r *ZerologRelay) Info(data relayDTO.RelayEventInterface)  { r.write(zerolog.InfoLevel, data) }
func (r *ZerologRelay) Warn(data relayDTO.RelayEventInterface)  { r.write(zerolog.WarnLevel, data) }
func (r *ZerologRelay) Error(data relayDTO.RelayEventInterface) { r.write(zerolog.ErrorLevel, data) }

// Fatal logs at fatal level without terminating the process.
func (r *ZerologRelay) Fatal(data relayDTO.RelayEventInterface) { r.write(zerolog.FatalLevel, data) }
func (r *ZerologRelay) Meta(data relayDTO.RelayEventInterface)  { r.write(zerolog.TraceLevel, data) }

func (r *ZerologRelay) write(level zerolog.Level, data relayDTO.RelayEventInterface) {
	if data == nil {
		return
	}
	ev := r.logger.WithLevel(level)
	if ev == nil {
		return
	}
	ev = ev.Str("channel", string(data.RelayChannel())).
		Str("type", string(data.RelayType()))
	for _, attr := range data.ToSlog() {
		ev = ev.Interface(attr.Key, attr.Value.Any())
	}
	ev.Msg(data.Message())
}
