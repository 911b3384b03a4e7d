package address

import (
	"regexp"
	"strings"
)

// RuleParser is a dictionary-driven tagger for US addresses written as
// "street[, unit], city, state[,] zip". It needs no external model.
type RuleParser struct{}

var (
	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	numberRe = regexp.MustCompile(`^(\d+[a-z]?|\d+-\d+[a-z]?|\d+/\d+)$`)
)

// states maps lower-case state names (single and multi-word) and USPS codes.
var states = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true, "ct": true,
	"de": true, "dc": true, "fl": true, "ga": true, "hi": true, "id": true, "il": true,
	"in": true, "ia": true, "ks": true, "ky": true, "la": true, "me": true, "md": true,
	"ma": true, "mi": true, "mn": true, "ms": true, "mo": true, "mt": true, "ne": true,
	"nv": true, "nh": true, "nj": true, "nm": true, "ny": true, "nc": true, "nd": true,
	"oh": true, "ok": true, "or": true, "pa": true, "ri": true, "sc": true, "sd": true,
	"tn": true, "tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true, "pr": true, "gu": true, "vi": true,

	"alabama": true, "alaska": true, "arizona": true, "arkansas": true, "california": true,
	"colorado": true, "connecticut": true, "delaware": true, "florida": true, "georgia": true,
	"hawaii": true, "idaho": true, "illinois": true, "indiana": true, "iowa": true,
	"kansas": true, "kentucky": true, "louisiana": true, "maine": true, "maryland": true,
	"massachusetts": true, "michigan": true, "minnesota": true, "mississippi": true,
	"missouri": true, "montana": true, "nebraska": true, "nevada": true, "ohio": true,
	"oklahoma": true, "oregon": true, "pennsylvania": true, "tennessee": true, "texas": true,
	"utah": true, "vermont": true, "virginia": true, "washington": true, "wisconsin": true,
	"wyoming": true, "new hampshire": true, "new jersey": true, "new mexico": true, "new york": true,
	"north carolina": true, "north dakota": true, "rhode island": true,
	"south carolina": true, "south dakota": true, "west virginia": true,
	"district of columbia": true, "puerto rico": true,
}

// suffixes holds common USPS street suffixes and their abbreviations.
var suffixes = map[string]bool{
	"aly": true, "alley": true, "ave": true, "av": true, "avenue": true, "blvd": true,
	"boulevard": true, "byp": true, "bypass": true, "cir": true, "circle": true,
	"ct": true, "court": true, "cv": true, "cove": true, "crk": true, "creek": true,
	"cres": true, "crescent": true, "dr": true, "drive": true, "expy": true,
	"expressway": true, "fwy": true, "freeway": true, "hwy": true, "highway": true,
	"holw": true, "hollow": true, "ln": true, "lane": true, "loop": true, "pkwy": true,
	"parkway": true, "pass": true, "path": true, "pike": true, "pl": true, "place": true,
	"plz": true, "plaza": true, "pt": true, "point": true, "rd": true, "road": true,
	"row": true, "run": true, "sq": true, "square": true, "st": true, "street": true,
	"ter": true, "terrace": true, "trce": true, "trace": true, "trl": true, "trail": true,
	"tpke": true, "turnpike": true, "way": true, "wy": true, "xing": true,
	"crossing": true, "park": true, "pk": true, "rdg": true, "ridge": true,
	"walk": true, "vw": true, "view": true, "grv": true, "grove": true,
	"hts": true, "heights": true, "mdw": true, "meadow": true, "mdws": true,
	"meadows": true, "est": true, "estates": true,
}

var directionals = map[string]bool{
	"n": true, "s": true, "e": true, "w": true, "ne": true, "nw": true, "se": true, "sw": true,
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

var unitTypes = map[string]bool{
	"apt": true, "apartment": true, "unit": true, "ste": true, "suite": true,
	"#": true, "lot": true, "trlr": true, "rm": true, "room": true, "fl": true,
	"floor": true, "bldg": true, "building": true, "spc": true, "space": true,
}

type word struct {
	text    string // original text with edge punctuation stripped
	lower   string
	segment int
}

// Parse implements Parser.
func (RuleParser) Parse(addr string) []Token {
	words := split(addr)
	if len(words) == 0 {
		return nil
	}
	labels := make([]Label, len(words))
	end := len(words)

	if zipRe.MatchString(words[end-1].lower) {
		labels[end-1] = ZipCode
		end--
	}
	if n := stateWords(words[:end]); n > 0 && end-n > 0 {
		for i := end - n; i < end; i++ {
			labels[i] = StateName
		}
		end -= n
	}

	streetEnd := streetLineEnd(words[:end])
	labelStreet(words[:streetEnd], labels)
	for i := streetEnd; i < end; i++ {
		labels[i] = PlaceName
	}
	labelUnitSegments(words[:end], streetEnd, labels)

	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Value: w.text, Label: labels[i]}
	}
	return tokens
}

func split(addr string) []word {
	var out []word
	for seg, part := range strings.Split(addr, ",") {
		part = strings.ReplaceAll(part, "#", " # ")
		for _, f := range strings.Fields(part) {
			f = strings.Trim(f, ".;:")
			if f == "" {
				continue
			}
			out = append(out, word{text: f, lower: strings.ToLower(f), segment: seg})
		}
	}
	return out
}

// stateWords returns how many trailing words form a state name (0 if none).
func stateWords(ws []word) int {
	for n := 3; n >= 1; n-- {
		if len(ws) < n {
			continue
		}
		parts := make([]string, 0, n)
		for _, w := range ws[len(ws)-n:] {
			parts = append(parts, w.lower)
		}
		if states[strings.Join(parts, " ")] {
			return n
		}
	}
	return 0
}

// streetLineEnd returns the index one past the last word of the street line.
// With commas the street line is the first segment; otherwise it ends at the
// last street suffix that follows at least one street-name word.
func streetLineEnd(ws []word) int {
	if len(ws) == 0 {
		return 0
	}
	if ws[len(ws)-1].segment > ws[0].segment {
		i := 0
		for i < len(ws) && ws[i].segment == ws[0].segment {
			i++
		}
		return i
	}
	last := -1
	for i := 1; i < len(ws); i++ {
		if suffixes[ws[i].lower] && !numberRe.MatchString(ws[i-1].lower) {
			last = i
		}
	}
	if last < 0 {
		return len(ws)
	}
	end := last + 1
	if end < len(ws) && directionals[ws[end].lower] && end+1 < len(ws) {
		end++
	}
	for end < len(ws) && unitTypes[ws[end].lower] {
		end++
		if end < len(ws) {
			end++
		}
	}
	return end
}

func labelStreet(ws []word, labels []Label) {
	if len(ws) == 0 {
		return
	}
	i := 0
	if ws[0].lower == "po" || ws[0].lower == "p" {
		return // box addresses carry no street; everything stays Other
	}
	if numberRe.MatchString(ws[0].lower) {
		labels[0] = AddressNumber
		i = 1
	}
	if i < len(ws)-1 && directionals[ws[i].lower] {
		i++
	}

	// find where the name stops: the last suffix that has a name word before it
	stop := len(ws)
	for j := len(ws) - 1; j > i; j-- {
		if suffixes[ws[j].lower] {
			stop = j
			break
		}
	}
	for j := i; j < stop; j++ {
		if unitTypes[ws[j].lower] {
			stop = j
			break
		}
		labels[j] = StreetName
	}
}

// labelUnitSegments marks comma segments after the street line that start
// with a unit designator ("Apt 4") as Other rather than PlaceName.
func labelUnitSegments(ws []word, from int, labels []Label) {
	for i := from; i < len(ws); i++ {
		if labels[i] != PlaceName || !unitTypes[ws[i].lower] {
			continue
		}
		seg := ws[i].segment
		if i > 0 && ws[i-1].segment == seg {
			continue
		}
		for j := i; j < len(ws) && ws[j].segment == seg; j++ {
			labels[j] = Other
		}
	}
}
