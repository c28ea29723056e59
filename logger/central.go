package logger

import "io"

// maxCentral is the maximum number of entries retained by the central
// logger.
const maxCentral = 256

var central = newLogger(maxCentral)

// Log adds an entry to the central logger, subject to perm.
func Log(perm Permission, tag, detail string) {
	if perm.AllowLogging() {
		central.log(tag, detail)
	}
}

// Logf adds a formatted entry to the central logger, subject to perm.
func Logf(perm Permission, tag, format string, args ...any) {
	if perm.AllowLogging() {
		central.logf(tag, format, args...)
	}
}

// Clear removes every entry from the central logger.
func Clear() { central.clear() }

// Write dumps the whole central log to output.
func Write(output io.Writer) { central.write(output) }

// Tail writes the last number entries to output.
func Tail(output io.Writer, number int) { central.tail(output, number) }

// SetEcho mirrors every future log entry to output as it is written, or
// disables mirroring if output is nil.
func SetEcho(output io.Writer) { central.echo = output }
