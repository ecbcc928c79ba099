package scan

import (
	"bufio"
	"io"
)

// eachLine calls fn with every line of r and its 1-based number until fn
// returns false. Lines longer than maxLineSize are not passed to fn; their
// numbers go to tooLong instead, and reading carries on with the next line.
func eachLine(r io.Reader, tooLong func(lineNo int), fn func(lineNo int, line string) bool) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	lineNo, oversized := 0, false
	for {
		chunk, more, err := br.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !oversized {
			if len(buf)+len(chunk) > maxLineSize {
				oversized, buf = true, buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if more {
			continue
		}

		lineNo++
		if oversized {
			tooLong(lineNo)
		} else if !fn(lineNo, string(buf)) {
			return nil
		}
		buf, oversized = buf[:0], false
	}
}

// skipLongLine returns a tooLong callback for eachLine that logs through opts.
func skipLongLine(opts Options) func(int) {
	return func(lineNo int) {
		opts.Logger("line %d: skipping line longer than %d bytes", lineNo, maxLineSize)
	}
}
