package cipher

// FrequencyTable holds the occurrence count of each letter, indexed a=0 ... z=25.
// Letters that never occur have a zero count.
type FrequencyTable [AlphabetSize]int

// CountFrequency counts the ASCII letters of text case-insensitively.
// Every other byte is ignored, so the counts sum to len(Normalize(text)).
func CountFrequency(text string) FrequencyTable {
	var table FrequencyTable
	for i := 0; i < len(text); i++ {
		if ch := text[i]; IsLetter(ch) {
			table[LetterIndex(ch)]++
		}
	}
	return table
}

// Total returns the number of letters counted.
func (t FrequencyTable) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Count returns the count for a single letter; non-letters count zero.
func (t FrequencyTable) Count(letter byte) int {
	if !IsLetter(letter) {
		return 0
	}
	return t[LetterIndex(letter)]
}

// MostFrequent returns the letter with the highest count. Letters are scanned
// a to z and the best is replaced only on a strictly greater count, so ties go
// to the earlier letter. ok is false for an empty table.
func (t FrequencyTable) MostFrequent() (letter byte, count int, ok bool) {
	for i, n := range t {
		if n > count {
			letter = LetterAt(i)
			count = n
		}
	}
	return letter, count, count > 0
}
