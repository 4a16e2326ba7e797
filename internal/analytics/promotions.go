package analytics

import (
	"regexp"
	"strings"
)

// UnknownLabel is used when a promotion or name cannot be resolved
const UnknownLabel = "Unknown"

type promotionAlias struct {
	name    string
	aliases []string
}

// Checked in order; NXT comes before WWE because NXT coverage usually says "WWE NXT".
var promotionTable = []promotionAlias{
	{name: "NXT", aliases: []string{"nxt"}},
	{name: "AEW", aliases: []string{"aew", "all elite wrestling", "dynamite", "collision"}},
	{name: "WWE", aliases: []string{"wwe", "raw", "smackdown", "wrestlemania", "summerslam", "royal rumble"}},
	{name: "TNA", aliases: []string{"tna", "impact wrestling"}},
	{name: "NJPW", aliases: []string{"njpw", "new japan"}},
	{name: "ROH", aliases: []string{"roh", "ring of honor"}},
}

// homePromotions maps the built-in roster to where each wrestler works
var homePromotions = map[string]string{
	"cody rhodes": "WWE", "roman reigns": "WWE", "cm punk": "WWE", "seth rollins": "WWE",
	"drew mcintyre": "WWE", "gunther": "WWE", "jey uso": "WWE", "randy orton": "WWE",
	"kevin owens": "WWE", "sami zayn": "WWE", "la knight": "WWE", "damian priest": "WWE",
	"logan paul": "WWE", "john cena": "WWE", "rhea ripley": "WWE", "bianca belair": "WWE",
	"liv morgan": "WWE", "iyo sky": "WWE", "tiffany stratton": "WWE", "jade cargill": "WWE",
	"bron breakker": "WWE", "goldberg": "WWE",
	"oba femi": "NXT", "trick williams": "NXT",
	"jon moxley": "AEW", "kenny omega": "AEW", "will ospreay": "AEW", "swerve strickland": "AEW",
	"hangman page": "AEW", "darby allin": "AEW", "orange cassidy": "AEW", "adam cole": "AEW",
	"bryan danielson": "AEW", "mercedes mone": "AEW", "toni storm": "AEW", "mariah may": "AEW",
	"kazuchika okada": "AEW", "zack sabre": "NJPW", "joe hendry": "TNA", "nic nemeth": "TNA",
}

// HomePromotion returns the promotion a known wrestler works for, or UnknownLabel
func HomePromotion(name string) string {
	if p, ok := homePromotions[foldAccents(strings.ToLower(strings.TrimSpace(name)))]; ok {
		return p
	}
	return UnknownLabel
}

// DetectPromotion returns the first promotion whose alias appears in text,
// or UnknownLabel.
func DetectPromotion(text string) string {
	for _, p := range promotionTable {
		for _, alias := range p.aliases {
			if wordPattern(alias).MatchString(text) {
				return p.name
			}
		}
	}
	return UnknownLabel
}

var capitalizedBigram = regexp.MustCompile(`\b[A-Z][A-Za-z'\-]+\s+[A-Z][A-Za-z'\-]+\b`)

// Capitalized words that start sentences or name shows rather than people
var nameStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "but": true, "this": true, "that": true,
	"tonight": true, "monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true, "night": true, "breaking": true,
	"report": true, "news": true, "vs": true, "wwe": true, "aew": true, "nxt": true, "tna": true,
	"njpw": true, "roh": true, "raw": true, "smackdown": true, "dynamite": true, "collision": true,
	"wrestlemania": true, "summerslam": true, "royal": true, "rumble": true, "world": true,
	"championship": true, "title": true, "match": true, "main": true, "event": true,
}

// ExtractCapitalizedNames finds "First Last" style tokens that look like names
func ExtractCapitalizedNames(text string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, candidate := range capitalizedBigram.FindAllString(text, -1) {
		parts := strings.Fields(candidate)
		if nameStopWords[strings.ToLower(parts[0])] || nameStopWords[strings.ToLower(parts[1])] {
			continue
		}
		name := parts[0] + " " + parts[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
