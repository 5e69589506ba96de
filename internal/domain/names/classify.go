package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line length bounds, in runes, for a plausible name.
const (
	minLineLen = 3
	maxLineLen = 30
)

// Verdict is the classifier's opinion of a raw text line.
type Verdict int

const (
	// Noise is UI chrome or metadata: numbers, credit rows, stop words.
	Noise Verdict = iota
	// NotAName survived the noise filters but has no cricket-name shape.
	NotAName
	// Name looks like a player name.
	Name
)

func (v Verdict) String() string {
	switch v {
	case Noise:
		return "noise"
	case NotAName:
		return "not_a_name"
	case Name:
		return "name"
	}
	return "unknown"
}

var (
	reNumeric   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	rePercent   = regexp.MustCompile(`^\d+(?:\.\d+)?\s*%\)?$`)
	reCredit    = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?\s*cr$`)
	reClock     = regexp.MustCompile(`^\d{1,3}:\d{1,2}$`)
	reParenTail = regexp.MustCompile(`^\d+.*\)$`)
	reDotsDigit = regexp.MustCompile(`^\.+\d+$`)
	reNoLetters = regexp.MustCompile(`^[^\p{L}]*$`)
)

// Name token fragments. An optional apostrophe prefix admits O'Rourke and
// D'Arcy; OCR often returns the typographic apostrophe.
const (
	givenToken   = `(?:[A-Z]['’])?[A-Z][a-z]+(?:-[A-Z][a-z]+)?`
	surnameToken = `(?:[A-Z]['’])?[A-Z][a-z]{2,}(?:-[A-Z][a-z]+)?`
)

// Cricket name shapes. Surnames need at least three letters.
var nameShapes = []*regexp.Regexp{
	// S Hope, MS Dhoni, J. Holder, M.S. Dhoni, W O'Rourke
	regexp.MustCompile(`^(?:[A-Z]\.?){1,2}\s+` + surnameToken + `$`),
	// Shamar Joseph, Shakib Al-Hasan, Will O'Rourke, D'Arcy Short
	regexp.MustCompile(`^` + givenToken + `\s+` + surnameToken + `$`),
	// AB de Villiers, Rassie van der Dussen, Kraigg C Brathwaite, Mohammad Nabi Khan
	regexp.MustCompile(`^(?:[A-Z]{1,2}|[A-Z][a-z]+)\s+(?:(?:[a-z]{1,3}\s+){1,2}|[A-Z][a-z]*\.?\s+)` + surnameToken + `$`),
}

// substringStopWords reject a line when contained anywhere in it.
var substringStopWords = []string{
	"wicket", "keeper", "batter", "batsman", "batsmen", "bowler", "rounder",
	"captain", "create", "upload", "credit", "players", "dream11", "match",
	"today", "tomorrow", "played", "points", "selected", "crore", "lakh",
	"percentage", "stats", "average", "strike", "economy", "innings",
	"catches", "stumps", "boundar", "maiden", "no-ball", "extras", "target",
	"venue", "pitch", "weather", "forecast", "probability", "fantasy",
	"prediction", "preview", "review", "store", "t20", "hundred", "trophy",
	"series", "league", "championship", "tournament", "qualifier",
	"eliminator", "playoff", "distribution", "lineup", "substitute",
	"impact", "contest", "vindictive",
}

// tokenStopWords are short enough to occur inside real names, so they only
// reject a line when they appear as a whole token.
var tokenStopWords = map[string]struct{}{
	"wk": {}, "bat": {}, "ar": {}, "bowl": {}, "all": {}, "vc": {},
	"cr": {}, "pts": {}, "sel": {}, "mo": {}, "em": {}, "app": {}, "team": {},
	"left": {}, "cup": {}, "win": {}, "toss": {}, "tie": {}, "runs": {},
	"overs": {}, "final": {}, "semi": {}, "shield": {}, "blast": {},
	"tour": {}, "vs": {}, "test": {}, "odi": {}, "ipl": {}, "bbl": {},
	"psl": {}, "cpl": {}, "lpl": {}, "sa": {}, "wi": {}, "aus": {},
	"ind": {}, "pak": {}, "eng": {}, "nz": {}, "sl": {}, "sri": {},
	"ban": {}, "afg": {}, "ire": {}, "sco": {}, "zim": {}, "ned": {},
	"nep": {}, "uae": {}, "usa": {}, "oman": {},
}

// IsPlausibleName reports whether line looks like a player name.
func IsPlausibleName(line string) bool {
	return Classify(line) == Name
}

// Classify decides whether a raw OCR line is noise, an implausible name, or a
// name. It favours precision: anything doubtful is not a Name.
func Classify(line string) Verdict {
	line = collapse(line)
	if n := utf8.RuneCountInString(line); n < minLineLen || n > maxLineLen {
		return Noise
	}
	if isMetadata(line) || hasStopWord(line) || reNoLetters.MatchString(line) {
		return Noise
	}
	for _, shape := range nameShapes {
		if shape.MatchString(line) {
			return Name
		}
	}
	return NotAName
}

func isMetadata(line string) bool {
	switch {
	case reNumeric.MatchString(line),
		rePercent.MatchString(line),
		reCredit.MatchString(line),
		reClock.MatchString(line),
		reParenTail.MatchString(line),
		reDotsDigit.MatchString(line),
		reMetaRow.MatchString(line):
		return true
	}
	return false
}

func hasStopWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range substringStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if _, ok := tokenStopWords[tok]; ok {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
