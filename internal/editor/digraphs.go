package editor

// digraphKey is a two-character digraph input, e.g. {'a', ':'} -> 'ä'.
// Lookups go through Editor.Digraph; no default key binding invokes it.
type digraphKey struct {
	a, b rune
}

// DefaultDigraphs returns a representative subset of the RFC 1345
// digraph table (the full table is mechanical and large; riv ships the
// entries exercised by its own tests and the most common Latin
// diacritics, matching the "cheap, self-contained" rationale for
// including this feature at all).
func DefaultDigraphs() map[digraphKey]rune {
	return map[digraphKey]rune{
		{'a', ':'}: 'ä',
		{'o', ':'}: 'ö',
		{'u', ':'}: 'ü',
		{'A', ':'}: 'Ä',
		{'O', ':'}: 'Ö',
		{'U', ':'}: 'Ü',
		{'s', 's'}: 'ß',
		{'e', '\''}: 'é',
		{'e', '!'}: 'è',
		{'a', '\''}: 'á',
		{'n', '~'}: 'ñ',
		{'N', '~'}: 'Ñ',
		{'c', ','}: 'ç',
		{'o', '/'}: 'ø',
		{'a', 'e'}: 'æ',
		{'1', '2'}: '½',
		{'1', '4'}: '¼',
		{'C', 'o'}: '©',
		{'R', 'g'}: '®',
		{'-', '1'}: '‐',
	}
}

// Digraph resolves a two-rune digraph to its composed character. ok is
// false when the pair is unknown, in which case callers fall back to
// inserting the second rune literally.
func (e *Editor) Digraph(a, b rune) (rune, bool) {
	r, ok := e.Digraphs[digraphKey{a, b}]
	return r, ok
}
