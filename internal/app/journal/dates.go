package journal

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale matches the language the personas speak.
var DefaultLocale = language.MustParse("zh-TW")

// ParseLocale falls back to DefaultLocale for an empty or invalid tag.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return tag
}

// FormatDate renders t as a short localized date.
func FormatDate(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()

	switch base.String() {
	case "zh", "ja":
		return t.Format("2006/1/2")
	case "ko":
		return t.Format("2006. 1. 2.")
	case "en":
		if region.String() == "US" {
			return t.Format("1/2/2006")
		}
		return t.Format("02/01/2006")
	case "de":
		return t.Format("2.1.2006")
	default:
		return t.Format("2006-01-02")
	}
}
