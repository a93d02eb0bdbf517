package cfgparse

import (
	"strings"
)

// Tokenize splits a sentence into tokens on white space
func Tokenize(sentence string) []string {
	return strings.Fields(sentence)
}
