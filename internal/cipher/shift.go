package cipher

import "strings"

// Shift applies a Caesar shift of amount positions to every ASCII letter of
// text. Letters come out lowercase; all other bytes pass through unchanged.
// Amounts congruent mod 26 give identical output.
func Shift(text string, amount int) string {
	offset := wrap(amount)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !IsLetter(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte(LetterAt(LetterIndex(ch) + offset))
	}
	return b.String()
}

// Unshift reverses Shift.
func Unshift(text string, amount int) string {
	return Shift(text, -amount)
}
