package bitstream_go

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	hex "github.com/tmthrgd/go-hex"
)

// ReadHexFile loads a hex dump from filename. See ParseHex for the format.
func ReadHexFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if nil != err {
		return nil, err
	}
	defer file.Close()
	return parse(file)
}

// ParseHex decodes a hex dump. Whitespace is ignored, a '#' starts a comment
// that runs to the end of the line, and an optional 0x prefix is accepted on
// each line.
func ParseHex(text string) ([]byte, error) {
	return parse(strings.NewReader(text))
}

func parse(r io.Reader) ([]byte, error) {
	var (
		scanner = bufio.NewScanner(r)
		digits  strings.Builder
		line    = 0
	)
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.Join(strings.Fields(text), "")
		text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
		if _, err := hex.DecodeString(evenPrefix(text)); nil != err {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		digits.WriteString(text)
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}
	if digits.Len()%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits (%d)", digits.Len())
	}
	if digits.Len() == 0 {
		return []byte{}, nil
	}
	return hex.DecodeString(digits.String())
}

// evenPrefix drops a trailing odd digit so a line can be checked on its own;
// a byte may be split across lines.
func evenPrefix(s string) string {
	return s[:len(s)&^1]
}
