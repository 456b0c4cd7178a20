package log

// Level mirrors the logrus severity ordering: lower is more severe.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var disabled bool

// Disable turns off all logging, whatever the module masks say.
func Disable() {
	disabled = true
}
