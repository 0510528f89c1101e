// Package utf8 splits code point ranges into UTF-8 byte ranges that byte-level
// grammars can match.
package utf8

import (
	"fmt"
	"strings"
)

// Block is a set of byte sequences of the same length. A sequence belongs to the block
// when each of its bytes lies between the bytes of From and To at the same index.
type Block struct {
	From []byte
	To   []byte
}

func (b *Block) String() string {
	var s strings.Builder
	fmt.Fprint(&s, "<")
	fmt.Fprintf(&s, "%X", b.From[0])
	for i := 1; i < len(b.From); i++ {
		fmt.Fprintf(&s, " %X", b.From[i])
	}
	fmt.Fprint(&s, "..")
	fmt.Fprintf(&s, "%X", b.To[0])
	for i := 1; i < len(b.To); i++ {
		fmt.Fprintf(&s, " %X", b.To[i])
	}
	fmt.Fprint(&s, ">")
	return s.String()
}

// Blocks returns the blocks encoding exactly the code points of <from..to> except the
// surrogate code points, in ascending order.
func Blocks(from, to rune) ([]*Block, error) {
	rs, err := splitCodePoint(from, to)
	if err != nil {
		return nil, err
	}

	var blks []*Block
	for _, r := range rs {
		for _, sub := range r.rectangles(nil) {
			blks = append(blks, &Block{
				From: []byte(string(sub.from)),
				To:   []byte(string(sub.to)),
			})
		}
	}

	return blks, nil
}

type cpRange struct {
	from rune
	to   rune
}

func encodedLen(r rune) int {
	switch {
	case r <= 0x007f:
		return 1
	case r <= 0x07ff:
		return 2
	case r <= 0xffff:
		return 3
	}
	return 4
}

// rectangles splits r, whose code points share an encoded length, until every byte of
// the encodings ranges independently. For instance, <U+00A0..U+07FF> becomes
// <C2 A0..C2 BF> and <C3 80..DF BF>.
func (r *cpRange) rectangles(acc []*cpRange) []*cpRange {
	n := encodedLen(r.from)
	for i := 1; i < n; i++ {
		m := rune(1)<<(6*i) - 1
		if r.from&^m == r.to&^m {
			continue
		}
		if r.from&m != 0 {
			acc = (&cpRange{from: r.from, to: r.from | m}).rectangles(acc)
			return (&cpRange{from: (r.from | m) + 1, to: r.to}).rectangles(acc)
		}
		if r.to&m != m {
			acc = (&cpRange{from: r.from, to: r.to&^m - 1}).rectangles(acc)
			return (&cpRange{from: r.to &^ m, to: r.to}).rectangles(acc)
		}
	}
	return append(acc, r)
}

// splitCodePoint splits <from..to> at the boundaries of the rows of the table of
// well-formed UTF-8 byte sequences, dropping the surrogate code points <U+D800..U+DFFF>.
// When from or to itself is a surrogate code point, it returns an error.
func splitCodePoint(from, to rune) ([]*cpRange, error) {
	if from > to {
		return nil, fmt.Errorf("code point range must be from <= to: U+%X..U+%X", from, to)
	}
	if from < 0x0000 || from > 0x10ffff || to < 0x0000 || to > 0x10ffff {
		return nil, fmt.Errorf("code point must be >=U+0000 and <=U+10FFFF: U+%X..U+%X", from, to)
	}
	// https://www.unicode.org/versions/Unicode13.0.0/ch03.pdf > 3.9 Unicode Encoding Forms > UTF-8 D92
	if from >= 0xd800 && from <= 0xdfff || to >= 0xd800 && to <= 0xdfff {
		return nil, fmt.Errorf("surrogate code points U+D800..U+DFFF are not allowed in UTF-8: U+%X..U+%X", from, to)
	}

	// https://www.unicode.org/versions/Unicode13.0.0/ch03.pdf > Table 3-7. Well-Formed UTF-8 Byte Sequences
	bounds := []rune{0x007f, 0x07ff, 0x0fff, 0xcfff, 0xd7ff, 0xffff, 0x3ffff, 0xfffff}

	var rs []*cpRange
	for from <= to {
		r := &cpRange{
			from: from,
			to:   to,
		}
		for _, b := range bounds {
			if from <= b && to > b {
				r.to = b
				break
			}
		}
		rs = append(rs, r)
		from = r.to + 1
		if from >= 0xd800 && from <= 0xdfff {
			from = 0xe000
		}
	}
	return rs, nil
}
