package voxelcore

import "strings"

// Default buffer sizes, made concrete from the "e.g." values spec.md gives
// for ChatBackend's two buffers.
const (
	DefaultConsoleScrollback uint32  = 500
	DefaultRecentScrollback  uint32  = 6
	DefaultRecentMaxAge      float32 = 60.0
)

// ChatBackend is a façade over two ChatBuffers: a large console scrollback
// and a small heads-up-display buffer whose entries age out quickly.
type ChatBackend struct {
	Console *ChatBuffer
	Recent  *ChatBuffer

	logger Logger
}

// NewChatBackend builds a backend with the default buffer sizes. A nil
// logger is replaced with a no-op sink.
func NewChatBackend(logger Logger) *ChatBackend {
	return &ChatBackend{
		Console: NewChatBuffer(DefaultConsoleScrollback),
		Recent:  NewChatBuffer(DefaultRecentScrollback),
		logger:  orNop(logger),
	}
}

// AddMessage appends name/text to both buffers.
func (cb *ChatBackend) AddMessage(name, text string) {
	beforeConsole := cb.Console.LineCount()
	cb.Console.AddLine(name, text)
	if cb.Console.LineCount() <= beforeConsole {
		cb.logger.Debugf("console buffer evicted oldest line, scrollback=%d", cb.Console.Scrollback())
	}
	cb.Recent.AddLine(name, text)
}

// AddLegacyMessage parses a preformatted line of the form "<name> message"
// and forwards it to AddMessage, falling back to treating the whole line
// as a server message when no well-formed "<name>" prefix is present.
func (cb *ChatBackend) AddLegacyMessage(line string) {
	name, text, ok := splitLegacyPrefix(line)
	if !ok {
		cb.AddMessage("", line)
		return
	}
	cb.AddMessage(name, text)
}

func splitLegacyPrefix(line string) (name, text string, ok bool) {
	runes := []rune(line)
	if len(runes) == 0 || runes[0] != '<' {
		return "", "", false
	}
	for i := 1; i < len(runes); i++ {
		if runes[i] != '>' {
			continue
		}
		rest := runes[i+1:]
		if len(rest) > 0 && rest[0] == ' ' {
			rest = rest[1:]
		}
		return string(runes[1:i]), string(rest), true
	}
	return "", "", false
}

// Reformat forwards to the console buffer; the recent buffer keeps its
// own small fixed geometry via ReformatRecent.
func (cb *ChatBackend) Reformat(rows, cols uint32) {
	cb.Console.Reformat(rows, cols)
}

// ReformatRecent lays out the recent-messages buffer, independent of the
// console's geometry (it is typically a few rows tall regardless of
// console size).
func (cb *ChatBackend) ReformatRecent(rows, cols uint32) {
	cb.Recent.Reformat(rows, cols)
}

// Step ages the recent buffer and trims entries past DefaultRecentMaxAge.
// The console buffer does not age out on a timer; it only evicts on
// scrollback overflow.
func (cb *ChatBackend) Step(dt float32) {
	before := cb.Recent.LineCount()
	cb.Recent.Step(dt)
	cb.Recent.DeleteByAge(DefaultRecentMaxAge)
	if after := cb.Recent.LineCount(); after < before {
		cb.logger.Debugf("recent chat buffer aged out %d line(s)", before-after)
	}
}

// GetRecentChat concatenates the recent buffer's texts, newline-separated.
func (cb *ChatBackend) GetRecentChat() string {
	n := cb.Recent.LineCount()
	lines := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		lines = append(lines, cb.Recent.Line(i).Text)
	}
	return strings.Join(lines, "\n")
}
