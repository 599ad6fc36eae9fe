package application

import (
	"regexp"
	"strconv"
	"strings"

	"bsebot/domain/entities"
)

// The share format is "Wordle 1,491 4/6" (thousands separator optional),
// with X in place of the guess count on a failed puzzle.
var wordleSharePattern = regexp.MustCompile(`Wordle\s+([\d,]+)\s+([1-9X])/(\d)`)

// ParseWordleShare extracts a Wordle result from a message. The second return
// is false when the message is not a Wordle share.
func ParseWordleShare(content string) (puzzle, guesses, maxGuesses int, ok bool) {
	match := wordleSharePattern.FindStringSubmatch(content)
	if match == nil {
		return 0, 0, 0, false
	}

	puzzle, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return 0, 0, 0, false
	}

	maxGuesses, err = strconv.Atoi(match[3])
	if err != nil {
		return 0, 0, 0, false
	}

	if match[2] == "X" {
		guesses = entities.WordleFailedGuesses
	} else {
		guesses, err = strconv.Atoi(match[2])
		if err != nil {
			return 0, 0, 0, false
		}
	}

	return puzzle, guesses, maxGuesses, true
}
