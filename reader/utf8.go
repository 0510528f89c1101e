package reader

import (
	"fmt"

	"github.com/nihei9/dervish/utf8"
)

// CodePoints matches the UTF-8 encoding of one code point in from..to over bytes.
// Surrogate code points never match. It panics when the range is invalid.
func CodePoints(from, to rune, opts ...Option) Node {
	blks, err := utf8.Blocks(from, to)
	if err != nil {
		panic(fmt.Errorf("reader: %w", err))
	}
	cases := make([]Node, len(blks))
	for i, blk := range blks {
		elems := make([]Node, len(blk.From))
		for j := range blk.From {
			elems[j] = Include(Range(TokenID(blk.From[j]), TokenID(blk.To[j])), ByteAlphabet)
		}
		if len(elems) == 1 {
			cases[i] = elems[0]
			continue
		}
		cases[i] = Sequence(elems)
	}
	return Choice(cases, opts...)
}
