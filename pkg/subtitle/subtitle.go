package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedContent reports a format or decoding problem detected before
// tokenization. It is surfaced to the caller as a validation error; wrapping
// adds the concrete reason.
var ErrUnsupportedContent = &ContentError{"unsupported content"}

// ContentError provides a simple typed error for content validation.
type ContentError struct{ msg string }

func (e *ContentError) Error() string { return e.msg }

func unsupported(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedContent, reason)
}

var (
	// Inline markup inside cue text: HTML-ish tags (<i>, <font ...>, <c.cyan>)
	// and ASS-style override blocks ({\an8}).
	reTags   = regexp.MustCompile(`<[^>]*>`)
	reBraces = regexp.MustCompile(`\{[^}]*\}`)
	reDigits = regexp.MustCompile(`^\d+$`)
)

// maxSubtitleSize bounds how much input is read from untrusted files.
const maxSubtitleSize = 10 * 1024 * 1024

// ExtractLines reads subtitle or plain-text content and returns the spoken
// text, one cue line per element. The format is chosen by the file name
// extension: .srt, .vtt, .txt (and no extension) are supported.
//
// Cue indexes, timestamp lines, WebVTT headers/NOTE blocks and inline markup
// are dropped. An empty result is not an error here; text with no usable
// tokens is reported downstream as ErrEmptyInput by the parsing pipeline.
func ExtractLines(r io.Reader, name string) ([]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSubtitleSize+1))
	if err != nil {
		return nil, fmt.Errorf("read subtitle content: %w", err)
	}
	if len(data) > maxSubtitleSize {
		return nil, unsupported(fmt.Sprintf("content exceeds %d bytes", maxSubtitleSize))
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, unsupported("binary content")
	}
	// Strip a UTF-8 BOM so the first line matches format markers.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		return nil, unsupported("content is not valid UTF-8")
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".srt":
		return extractCues(data, false), nil
	case ".vtt":
		return extractCues(data, true), nil
	case ".txt", ".text", "":
		return plainLines(data), nil
	}
	return nil, unsupported(fmt.Sprintf("unrecognized file type %q", filepath.Ext(name)))
}

// ExtractFile opens path and extracts its cue lines.
func ExtractFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitle file: %w", err)
	}
	defer f.Close()
	return ExtractLines(f, filepath.Base(path))
}

// extractCues walks cue blocks, keeping only spoken-text lines.
func extractCues(data []byte, vtt bool) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxSubtitleSize)

	skipBlock := false
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if vtt && first {
			first = false
			if strings.HasPrefix(line, "WEBVTT") {
				continue
			}
		}
		if line == "" {
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}
		// NOTE/STYLE/REGION blocks carry no spoken text.
		if vtt && (strings.HasPrefix(line, "NOTE") || line == "STYLE" || line == "REGION") {
			skipBlock = true
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if reDigits.MatchString(line) {
			// Cue index (or a bare VTT cue identifier that happens to be numeric).
			continue
		}
		if text := cleanCueText(line); text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}

func cleanCueText(line string) string {
	line = reTags.ReplaceAllString(line, "")
	line = reBraces.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

func plainLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
