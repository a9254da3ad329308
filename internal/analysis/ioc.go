// Package analysis recovers Vigenère keys from ciphertext using the index of
// coincidence and per-position frequency analysis.
package analysis

import "github.com/verte-zerg/cryptan/internal/cipher"

// EnglishIOC approximates the index of coincidence of English text.
const EnglishIOC = 0.065

// IndexOfCoincidence returns the probability that two letters drawn without
// replacement from a text with the given counts are equal. length is the number
// of letters the table was built from; the result is 0 when length <= 1.
func IndexOfCoincidence(table cipher.FrequencyTable, length int) float64 {
	if length <= 1 {
		return 0
	}
	var sum float64
	for _, n := range table {
		sum += float64(n) * float64(n-1)
	}
	return sum / (float64(length) * float64(length-1))
}
