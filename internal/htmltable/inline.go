package htmltable

import (
	"fmt"

	"github.com/vanng822/go-premailer/premailer"
)

// Inline merges the document's stylesheet into per-element style
// attributes, so the pasted table survives mail clients that strip
// style blocks.
func Inline(doc string) (string, error) {
	p, err := premailer.NewPremailerFromString(doc, premailer.NewOptions())
	if err != nil {
		return "", fmt.Errorf("parsing for inlining: %w", err)
	}
	out, err := p.Transform()
	if err != nil {
		return "", fmt.Errorf("inlining styles: %w", err)
	}
	return out, nil
}
