package ingest

import (
	"strings"
	"unicode"

	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// alternativeTitleTypes are the title tags worth keeping for URL matching.
// Everything else is only kept when it is the US title.
var alternativeTitleTypes = map[string]bool{
	"modern title":  true,
	"Short Title":   true,
	"English title": true,
}

// FilterAlternativeTitles keeps the variants usable as search aliases: tagged
// modern/short/English titles from any country, plus all US titles.
func FilterAlternativeTitles(titles []tmdb.AlternativeTitle) []string {
	var out []string
	for _, title := range titles {
		if alternativeTitleTypes[title.Type] || title.ISO3166_1 == "US" {
			out = append(out, title.Title)
		}
	}
	return out
}

// TitleVariants holds the slugged spellings of a media title set, used to
// match external rating sites that encode titles in their URLs.
type TitleVariants struct {
	Dashed      []string
	Underscored []string
	PascalCased []string
}

// ExtractTitleVariants slugs every title into dashed, underscored and
// PascalCased forms, deduplicated per form.
func ExtractTitleVariants(titles []string) TitleVariants {
	var variants TitleVariants
	seenDashed := map[string]bool{}
	seenUnderscored := map[string]bool{}
	seenPascal := map[string]bool{}

	for _, title := range titles {
		dashed := toDashed(title)
		if dashed == "" {
			continue
		}
		underscored := strings.ReplaceAll(dashed, "-", "_")
		pascal := toPascalCase(dashed)

		if !seenDashed[dashed] {
			seenDashed[dashed] = true
			variants.Dashed = append(variants.Dashed, dashed)
		}
		if !seenUnderscored[underscored] {
			seenUnderscored[underscored] = true
			variants.Underscored = append(variants.Underscored, underscored)
		}
		if !seenPascal[pascal] {
			seenPascal[pascal] = true
			variants.PascalCased = append(variants.PascalCased, pascal)
		}
	}
	return variants
}

// toDashed lowercases the title and collapses every non-alphanumeric run
// into a single dash.
func toDashed(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// toPascalCase turns a dashed slug into PascalCase.
func toPascalCase(dashed string) string {
	parts := strings.Split(dashed, "-")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
