// Package parser converts the plain-text question exchange format into
// validated question records with per-line diagnostics.
//
// A document is a sequence of blocks separated by one or more blank lines.
// Each block holds the question text (one or more lines), exactly four
// option lines "A. ..." through "D. ...", and a single "ANSWER: X" line.
// Letters are matched case-insensitively.
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const minBlockLines = 6 // question + four options + answer

var (
	optionRe = regexp.MustCompile(`(?i)^([A-Z])\.\s*(.+)$`)
	answerRe = regexp.MustCompile(`(?i)^ANSWER:\s*(\S+)\s*$`)
)

// ParsedQuestion is one validated block.
type ParsedQuestion struct {
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correctOption"`
}

// ParseError tags a human-readable message with the 1-based line number of
// the start of the offending block.
type ParseError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Result carries every successfully parsed block alongside every block
// error. Callers must treat any error as import-blocking.
type Result struct {
	Questions []ParsedQuestion `json:"questions"`
	Errors    []ParseError     `json:"errors"`
}

func (r *Result) IsSuccessful() bool {
	return len(r.Errors) == 0
}

type block struct {
	startLine int
	lines     []string
}

// Parse never fails on malformed input; it walks every block and collects
// diagnostics instead.
func Parse(text string) *Result {
	res := &Result{}
	for _, b := range splitBlocks(text) {
		q, err := parseBlock(b)
		if err != nil {
			res.Errors = append(res.Errors, *err)
			continue
		}
		res.Questions = append(res.Questions, *q)
	}
	return res
}

func splitBlocks(text string) []block {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var blocks []block
	var cur *block
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			cur = nil
			continue
		}
		if cur == nil {
			blocks = append(blocks, block{startLine: i + 1})
			cur = &blocks[len(blocks)-1]
		}
		cur.lines = append(cur.lines, line)
	}
	return blocks
}

func parseBlock(b block) (*ParsedQuestion, *ParseError) {
	fail := func(format string, args ...interface{}) (*ParsedQuestion, *ParseError) {
		return nil, &ParseError{Line: b.startLine, Message: fmt.Sprintf(format, args...)}
	}

	if len(b.lines) < minBlockLines {
		return fail("block has %d lines, expected at least %d (question text, options A-D, answer)", len(b.lines), minBlockLines)
	}

	// Question text is every line before the first option line.
	firstOption := -1
	for i, line := range b.lines {
		if optionRe.MatchString(line) {
			firstOption = i
			break
		}
	}
	if firstOption == 0 {
		return fail("no question text found before the first option line")
	}
	textEnd := firstOption
	if textEnd < 0 {
		textEnd = len(b.lines)
	}
	text := strings.Join(b.lines[:textEnd], " ")

	options := make(map[string]string, 4)
	var unexpected []string
	answer := ""
	answerSeen := false
	for _, line := range b.lines[textEnd:] {
		if m := optionRe.FindStringSubmatch(line); m != nil {
			label := strings.ToUpper(m[1])
			if label < "A" || label > "D" {
				unexpected = append(unexpected, label)
				continue
			}
			if _, dup := options[label]; dup {
				return fail("duplicate option label %q", label)
			}
			options[label] = strings.TrimSpace(m[2])
			continue
		}
		if m := answerRe.FindStringSubmatch(line); m != nil {
			answerSeen = true
			answer = strings.ToUpper(m[1])
		}
	}

	var missing []string
	for _, label := range []string{"A", "B", "C", "D"} {
		if _, ok := options[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		sort.Strings(unexpected)
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing option(s): "+strings.Join(missing, ", "))
		}
		if len(unexpected) > 0 {
			parts = append(parts, "unexpected option label(s): "+strings.Join(unexpected, ", "))
		}
		return fail("%s", strings.Join(parts, "; "))
	}

	if !answerSeen {
		return fail("no ANSWER line found")
	}
	if len(answer) != 1 || answer < "A" || answer > "D" {
		return fail("answer %q is not one of A-D", answer)
	}

	return &ParsedQuestion{
		Text:          text,
		Options:       options,
		CorrectOption: answer,
	}, nil
}
