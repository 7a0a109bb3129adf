// Package textutil implements small text-transformation helpers: case
// conversion and date increment/decrement under the cursor. Both are
// few-line string/date utilities implemented directly against the
// standard library.
package textutil

import "strings"

// ToKebabCase converts s to kebab-case, splitting at the boundary
// between a lowercase letter or digit and a following uppercase
// letter. Runs of uppercase letters or digits are kept as one word
// ("World123" stays intact): ToKebabCase("HelloWorld123") ==
// "hello-world123".
func ToKebabCase(s string) string {
	return strings.Join(splitWords(s), "-")
}

// ToSnakeCase converts s to snake_case using the same word boundaries
// as ToKebabCase: ToSnakeCase("helloWORLD123") == "hello_world123".
func ToSnakeCase(s string) string {
	return strings.Join(splitWords(s), "_")
}

// splitWords lowercases s and splits it into words at
// lowercase/digit-to-uppercase transitions.
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var word []rune

	for i, r := range runes {
		if i > 0 && isUpper(r) && !isUpper(runes[i-1]) {
			words = append(words, strings.ToLower(string(word)))
			word = nil
		}
		word = append(word, r)
	}
	if len(word) > 0 {
		words = append(words, strings.ToLower(string(word)))
	}
	return words
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
