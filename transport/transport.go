// Package transport turns a raw byte stream into the \r- or
// \r\n-terminated lines a pdu.Framer consumes, and drives a Framer to
// completion over a stream of such lines.
package transport

import (
	"io"

	"github.com/relaywire/mep2/pdu"
)

const readBufferSize = 4096

// LineReader splits r into wire lines, each including its own terminating
// \r or \r\n. Unlike a typical text line reader, the terminator is kept:
// the MEP2 checksum covers every byte delivered to the framer, including
// the line ending.
func LineReader(r io.Reader) <-chan string {
	lines := make(chan string, 1)
	go func() {
		defer close(lines)

		buf := make([]byte, readBufferSize)
		var current []byte
		pendingCR := false

		flush := func() {
			if len(current) > 0 {
				lines <- string(current)
				current = nil
			}
		}

		for {
			n, err := r.Read(buf)
			for i := 0; i < n; i++ {
				b := buf[i]

				if pendingCR {
					pendingCR = false
					if b == '\n' {
						current = append(current, b)
						flush()
						continue
					}
					flush()
				}

				current = append(current, b)
				if b == '\r' {
					pendingCR = true
				}
			}

			if err != nil {
				flush()
				return
			}
		}
	}()
	return lines
}

// Drive feeds every line from lines into f, stopping at the first error or
// once the channel closes. It does not extract completed PDUs; callers
// that want each PDU as it completes should call f.ExtractPDU themselves
// between Drive calls, or drive line-by-line directly.
func Drive(f *pdu.Framer, lines <-chan string) error {
	for line := range lines {
		if err := f.ParseLine(line); err != nil {
			return err
		}
	}
	return nil
}

// ReadPDUs drives f over every line read from r, sending each completed
// PDU to the returned channel. The channel closes when r is exhausted or
// the framer errors; on error, err is sent as the final receive on errc
// before both channels close.
func ReadPDUs(r io.Reader, f *pdu.Framer) (<-chan pdu.PduVariant, <-chan error) {
	pdus := make(chan pdu.PduVariant)
	errc := make(chan error, 1)

	go func() {
		defer close(pdus)
		defer close(errc)

		lines := LineReader(r)
		for line := range lines {
			if err := f.ParseLine(line); err != nil {
				errc <- err
				return
			}
			if f.IsComplete() {
				v, err := f.ExtractPDU()
				if err != nil {
					errc <- err
					return
				}
				pdus <- v
			}
		}
	}()

	return pdus, errc
}
