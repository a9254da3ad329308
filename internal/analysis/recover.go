package analysis

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/model"
)

// assumedPlain is the plaintext letter the most frequent ciphertext letter of
// each residue class is taken to encrypt.
const assumedPlain = 'e'

// RecoverKey infers a key of keyLength letters by assuming the most frequent
// letter in each residue class is the encryption of 'e'.
func RecoverKey(cipherText string, keyLength int) (cipher.Key, error) {
	classes, err := AnalyzeClasses(cipherText, keyLength)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(keyLength)
	for _, class := range classes {
		b.WriteString(class.KeyLetter)
	}
	return cipher.Key(b.String()), nil
}

// AnalyzeClasses reports, for each key position, the class frequency table,
// its most frequent letter and the key letter inferred from it.
func AnalyzeClasses(cipherText string, keyLength int) ([]model.ClassAnalysis, error) {
	if keyLength < 1 {
		return nil, fmt.Errorf("%w: key length %d must be >= 1", cipher.ErrInvalidKey, keyLength)
	}
	text := cipher.Normalize(cipherText)
	if text == "" {
		return nil, cipher.ErrEmptyText
	}

	tables := classTables(text, keyLength)
	out := make([]model.ClassAnalysis, 0, keyLength)
	for i, table := range tables {
		letter, _, ok := table.MostFrequent()
		if !ok {
			return nil, fmt.Errorf("%w: class %d of %d is empty for %d letters", cipher.ErrDegenerateClass, i, keyLength, len(text))
		}
		shift := cipher.LetterIndex(letter) - cipher.LetterIndex(assumedPlain)
		keyLetter := cipher.LetterAt(shift)
		out = append(out, model.ClassAnalysis{
			Index:        i,
			Frequency:    frequencyReport(table),
			MostFrequent: string(letter),
			Shift:        cipher.LetterIndex(keyLetter),
			KeyLetter:    string(keyLetter),
		})
	}
	return out, nil
}
