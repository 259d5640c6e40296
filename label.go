package glyphmatch

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"
)

// Label is one of the twelve glyph classes a corpus image can belong to.
// Its integer value is the row/column index in a ConfusionMatrix.
type Label int

const (
	Label0 Label = iota
	Label1
	Label2
	Label3
	Label4
	Label5
	Label6
	Label7
	Label8
	Label9
	LabelPlus
	LabelMinus
)

// NumLabels is the number of glyph classes.
const NumLabels = 12

// Labels lists every class in matrix order.
var Labels = [NumLabels]Label{
	Label0, Label1, Label2, Label3, Label4, Label5,
	Label6, Label7, Label8, Label9, LabelPlus, LabelMinus,
}

// InvalidLabelError reports a filename whose first character does not name
// a glyph class.
type InvalidLabelError struct {
	Name string
	Char rune
}

func (e *InvalidLabelError) Error() string {
	if e.Char == utf8.RuneError {
		return fmt.Sprintf("invalid label for %q: empty or undecodable name", e.Name)
	}
	return fmt.Sprintf("invalid label for %q: leading character %q is not a digit, '+' or '-'",
		e.Name, e.Char)
}

// ParseLabel maps a glyph character to its class.
func ParseLabel(c rune) (Label, error) {
	switch {
	case c >= '0' && c <= '9':
		return Label(c - '0'), nil
	case c == '+':
		return LabelPlus, nil
	case c == '-':
		return LabelMinus, nil
	}
	return 0, &InvalidLabelError{Char: c}
}

// LabelFromFilename derives the class of an image from the first character
// of its base name, so "5_a.png" and "/corpus/5b.png" are both Label5.
func LabelFromFilename(name string) (Label, error) {
	base := filepath.Base(name)
	c, _ := utf8.DecodeRuneInString(base)
	if base == "." || base == string(filepath.Separator) {
		c = utf8.RuneError
	}
	l, err := ParseLabel(c)
	if err != nil {
		return 0, &InvalidLabelError{Name: base, Char: c}
	}
	return l, nil
}

// Valid reports whether l is one of the twelve classes.
func (l Label) Valid() bool {
	return l >= Label0 && l <= LabelMinus
}

// Rune returns the glyph character for l.
func (l Label) Rune() rune {
	switch {
	case l >= Label0 && l <= Label9:
		return '0' + rune(l)
	case l == LabelPlus:
		return '+'
	case l == LabelMinus:
		return '-'
	}
	return '?'
}

func (l Label) String() string {
	return string(l.Rune())
}
