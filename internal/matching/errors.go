package matching

import (
	"errors"
	"fmt"
)

// ErrEmptyCandidates is returned when the matcher has nothing to rank.
var ErrEmptyCandidates = errors.New("empty candidate list")

// MalformedTitleError reports a vehicle title too short to carry a make.
type MalformedTitleError struct {
	Title  string
	Tokens int
}

func (e *MalformedTitleError) Error() string {
	return fmt.Sprintf("malformed vehicle title %q: %d token(s), need at least 2", e.Title, e.Tokens)
}
