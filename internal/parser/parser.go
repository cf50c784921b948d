// Package parser reads flashcards from markdown notes.
//
// A card starts with a "Q:" line and its answer with an "A:" line; both may
// continue over several lines. "C:" blocks hold notes that are not part of
// the card and are skipped. A line of "---" ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

const (
	promptPrefix  = "Q:"
	answerPrefix  = "A:"
	contextPrefix = "C:"
	separator     = "---"
)

type state int

const (
	seeking state = iota
	readingPrompt
	readingAnswer
	readingContext
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Cards are returned
// as written; a card without an answer is returned with an empty Answer.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var current domain.Card
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n")
		switch currentState {
		case readingPrompt:
			current.Prompt = content
		case readingAnswer:
			current.Answer = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Prompt != "" {
			cards = append(cards, current)
		}
		current = domain.Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishCard()
			continue
		}

		next, content, ok := cutPrefix(line)
		if !ok {
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		flushBlock()
		if next == readingPrompt && currentState != seeking {
			// A new question always starts a new card.
			finishCard()
		}
		currentState = next
		block = append(block, content)
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// cutPrefix recognizes a block-opening line and returns the block it opens
// and the text after the prefix.
func cutPrefix(line string) (state, string, bool) {
	for _, p := range []struct {
		prefix string
		state  state
	}{
		{promptPrefix, readingPrompt},
		{answerPrefix, readingAnswer},
		{contextPrefix, readingContext},
	} {
		if rest, ok := strings.CutPrefix(line, p.prefix); ok {
			return p.state, strings.TrimPrefix(rest, " "), true
		}
	}
	return seeking, "", false
}
