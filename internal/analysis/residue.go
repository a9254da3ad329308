package analysis

import (
	"strings"

	"github.com/verte-zerg/cryptan/internal/cipher"
)

// ResidueClasses splits normalized text into length classes where class i holds
// every letter at index j with j mod length == i, in text order.
func ResidueClasses(normalized string, length int) []string {
	if length < 1 {
		return nil
	}
	builders := make([]strings.Builder, length)
	per := len(normalized)/length + 1
	for i := range builders {
		builders[i].Grow(per)
	}
	for i := 0; i < len(normalized); i++ {
		builders[i%length].WriteByte(normalized[i])
	}
	classes := make([]string, length)
	for i := range builders {
		classes[i] = builders[i].String()
	}
	return classes
}

func classTables(normalized string, length int) []cipher.FrequencyTable {
	classes := ResidueClasses(normalized, length)
	tables := make([]cipher.FrequencyTable, len(classes))
	for i, class := range classes {
		tables[i] = cipher.CountFrequency(class)
	}
	return tables
}
