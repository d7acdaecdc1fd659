package parser

import (
	"errors"
	"strings"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

// fieldAliases lists, in priority order, the source column names that map
// onto each canonical Word field (§4.2). The first matching, non-empty
// column wins.
var fieldAliases = map[string][]string{
	"lemma":       {"lemma", "word", "term", "french"},
	"zh":          {"meaning_zh", "meaning", "translation", "zh", "chinese"},
	"en":          {"meaning_en", "en", "english"},
	"pos":         {"pos", "part_of_speech"},
	"gender":      {"gender", "genre"},
	"ipa":         {"ipa", "phonetic"},
	"lesson":      {"lesson", "chapter", "unit"},
	"cefr":        {"cefr", "level"},
	"tags":        {"tags"},
	"hint":        {"hint"},
	"meaning_raw": {"meaning_text"},
}

// mapRow applies the §4.2 field-mapping table to one row of raw,
// case-insensitively keyed source values and validates the result. A row
// with no lemma produces a RowError rather than an error return, since the
// caller must keep streaming past it.
func mapRow(rowNum int, raw map[string]string) (*domain.NormalizedWord, *RowError) {
	folded := make(map[string]string, len(raw))
	for k, v := range raw {
		folded[strings.ToLower(strings.TrimSpace(k))] = v
	}

	nw := &domain.NormalizedWord{
		Translations: map[string]string{},
	}
	nw.Lemma = firstMatch(folded, fieldAliases["lemma"])
	nw.POS = firstMatch(folded, fieldAliases["pos"])
	nw.Gender = firstMatch(folded, fieldAliases["gender"])
	nw.IPA = firstMatch(folded, fieldAliases["ipa"])
	nw.Lesson = firstMatch(folded, fieldAliases["lesson"])
	nw.CEFR = firstMatch(folded, fieldAliases["cefr"])
	nw.Hint = firstMatch(folded, fieldAliases["hint"])

	if zh := firstMatch(folded, fieldAliases["zh"]); zh != "" {
		nw.Translations["zh-cn"] = zh
	}
	if en := firstMatch(folded, fieldAliases["en"]); en != "" {
		nw.Translations["en"] = en
	}
	nw.MeaningText = firstMatch(folded, fieldAliases["meaning_raw"])
	if nw.MeaningText == "" {
		nw.MeaningText = nw.Translations["zh-cn"]
	}
	if nw.MeaningText == "" {
		nw.MeaningText = nw.Translations["en"]
	}

	if tags := firstMatch(folded, fieldAliases["tags"]); tags != "" {
		nw.Tags = splitTags(tags)
	}

	if err := nw.Validate(); err != nil {
		if errors.Is(err, domain.ErrWordLemmaEmpty) {
			return nil, &RowError{Row: rowNum, Missing: "lemma"}
		}
		return nil, &RowError{Row: rowNum, Reason: err.Error()}
	}

	return nw, nil
}

func firstMatch(folded map[string]string, candidates []string) string {
	for _, c := range candidates {
		if v, ok := folded[c]; ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return ""
}

func splitTags(raw string) []string {
	pieces := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
