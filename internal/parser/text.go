package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/procdocs/sopstruct/internal/block"
)

// TextExtractor handles plain text files. Everything lands on page 1;
// form feeds advance the page.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) ([]block.TextLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []block.TextLine
	page := 1
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "\f") {
			for i, part := range strings.Split(line, "\f") {
				if i > 0 {
					page++
				}
				lines = splitLines(lines, part, page)
			}
			continue
		}
		lines = splitLines(lines, line, page)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
