package catalog

import "strings"

// valueTerms maps English feature values, lower-cased, to their French label.
var valueTerms = map[string]string{
	"summer / mid-season":       "Été / Mi-saison",
	"all seasons":               "Toutes saisons",
	"summer":                    "Été",
	"mid-season":                "Mi-saison",
	"leather":                   "Cuir",
	"man":                       "Homme",
	"male":                      "Homme",
	"women":                     "Femme",
	"female":                    "Femme",
	"black":                     "Noir",
	"white":                     "Blanc",
	"red":                       "Rouge",
	"blue":                      "Bleu",
	"urban":                     "Urbain",
	"predisposed back":          "Prédisposé(e) dorsale",
	"trouser/jacket connection": "Raccord pantalon/veste",
	"fixed lining":              "Doublure fixe",
	"removable lining":          "Doublure Amovible",
	"waterproof":                "Imperméable",
	"ce elbow protections":      "Protections CE Coudes",
	"ce shoulder protections":   "Protections CE Epaules",
	"guarantee":                 "Garantie",
	"jacket approval":           "Homologation blouson / veste",
	"gloves approval":           "Homologation gants",
	"motorcycle gloves":         "Gants moto",
	"sweatshirt":                "Sweat-shirt",
}

// nameTerms maps single English words of product names to French.
var nameTerms = map[string]string{
	"women's": "Femme",
	"men's":   "Homme",
	"lady":    "Femme",
	"jacket":  "Blouson",
	"glove":   "Gants",
	"gloves":  "Gants",
	"black":   "Noir",
	"white":   "Blanc",
	"red":     "Rouge",
	"blue":    "Bleu",
	"brown":   "Marron",
	"fushia":  "Fuchsia",
}

func lookupTerm(dict map[string]string, s string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	v, ok := dict[key]
	return v, ok
}

// TranslateValue renders an English feature value in French. A value is looked
// up whole, then part by part around "/" and "," separators. Unknown words
// are kept.
func TranslateValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	if v, ok := lookupTerm(valueTerms, s); ok {
		return v
	}
	var b strings.Builder
	start := 0
	for i, r := range s {
		if r != '/' && r != ',' {
			continue
		}
		b.WriteString(translatePart(s[start:i]))
		b.WriteRune(r)
		start = i + 1
	}
	b.WriteString(translatePart(s[start:]))
	return b.String()
}

// translatePart translates one separated part, keeping its surrounding spaces.
func translatePart(part string) string {
	trimmed := strings.TrimSpace(part)
	v, ok := lookupTerm(valueTerms, trimmed)
	if !ok || trimmed == "" {
		return part
	}
	lead := part[:strings.Index(part, trimmed)]
	return lead + v + part[len(lead)+len(trimmed):]
}

// TranslateName renders an English product name in French, word by word.
func TranslateName(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if v, ok := lookupTerm(nameTerms, w); ok {
			words[i] = v
		}
	}
	return strings.Join(words, " ")
}

// LocalizeValue translates v when lang is French.
func LocalizeValue(lang, v string) string {
	if isFrench(lang) {
		return TranslateValue(v)
	}
	return v
}

// LocalizeName translates name when lang is French.
func LocalizeName(lang, name string) string {
	if isFrench(lang) {
		return TranslateName(name)
	}
	return name
}

func isFrench(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	return lang == "" || lang == "fr" || strings.HasPrefix(lang, "fr-")
}
