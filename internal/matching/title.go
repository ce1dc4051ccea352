package matching

import "strings"

// ParsedTitle holds the year/make/model/trim split of a vehicle title
type ParsedTitle struct {
	Year  string `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Trim  string `json:"trim"`
}

// ParseTitle splits a free-text title such as "2021 Honda Civic Touring".
//
// The first token is the year and the second the make. The last remaining
// token is taken as trim and everything between as model. When only one
// token is left after the make it is the model, not the trim.
func ParseTitle(title string) (ParsedTitle, error) {
	words := strings.Fields(title)
	if len(words) < 2 {
		return ParsedTitle{}, &MalformedTitleError{Title: title, Tokens: len(words)}
	}

	parsed := ParsedTitle{
		Year: words[0],
		Make: strings.ToLower(words[1]),
	}

	rest := words[2:]
	if len(rest) == 0 {
		return parsed, nil
	}

	trim := strings.ToLower(rest[len(rest)-1])
	model := strings.ToLower(strings.Join(rest[:len(rest)-1], " "))

	if model == "" {
		model = trim
		trim = ""
	}

	parsed.Model = model
	parsed.Trim = trim
	return parsed, nil
}
