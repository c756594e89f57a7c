package quiz

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/lrn/internal/model"
)

// Check reports whether input answers the entry in lang. A numeral within
// [1, len(options)] selects that option; anything else is compared as text.
func Check(input, source, target string, lang model.Language, options []string) bool {
	input = normalize(input)
	want := strings.ToLower(source)
	if lang == model.LangUA {
		want = strings.ToLower(target)
	}
	if idx, ok := optionIndex(input, len(options)); ok {
		return strings.ToLower(options[idx]) == want
	}
	return input == want
}

func optionIndex(input string, count int) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || strconv.Itoa(n) != input {
		return 0, false
	}
	if n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
