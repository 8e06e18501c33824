package stringer

import (
  "html"
  "regexp"
  "strings"

  "github.com/microcosm-cc/bluemonday"
  "golang.org/x/text/cases"
  "golang.org/x/text/language"
)

var (
  policy         = bluemonday.StrictPolicy()
  RegexRepeatSep = regexp.MustCompile(`[ \t]{2,}`)
)

func StripTags(s string) string {
  return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

func Strip(s string) string {
  return strings.TrimSpace(s)
}

func IsEmptyStr(s string) bool {
  return Strip(s) == ""
}

func ToTitle(s string, lang ...language.Tag) string {
  lTag := language.Und
  for _, l := range lang {
    lTag = l
    break
  }
  return cases.Title(lTag, cases.NoLower).String(s)
}

// SanitizeLine collapses repeated blanks of a single line value, such as a select option label.
func SanitizeLine(s string) string {
  s = StripTags(s)
  s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
  return strings.Join(strings.Fields(s), " ")
}
