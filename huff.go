// Package huff implements lossless Huffman compression and decompression of byte streams.
// The compressed format is self-describing: the coding tree is serialized in a
// pre-order header ahead of the body, so no side information is needed to decompress.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go gettysburg.txt > gettys.huff
//    cat gettys.huff | go run decompress/main.go > gettys.dhuff
//    diff gettysburg.txt gettys.dhuff
package huff

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/fumin/huff/bitio"
)

const (
	bitsPerWord = 8
	bitsPerInt  = 32
	alphSize    = 1 << bitsPerWord

	// pseudoEOF marks the logical end of the encoded body.
	// It lies outside the byte range, which is why leaf symbols
	// take symbolBits rather than bitsPerWord bits in the header.
	pseudoEOF  = alphSize
	symbolBits = 9

	// huffTree is the magic number identifying the tree-header format.
	huffNumber = 0xface8200
	huffTree   = huffNumber | 1

	// maxDepth bounds the coding tree. A tree over alphSize+1 leaves can
	// never be deeper, so anything beyond it in a header is garbage.
	maxDepth = alphSize
)

// ErrMalformed is returned when compressed input is corrupt: a missing or
// wrong magic number, a truncated tree header, or a body that ends before
// the end-of-stream marker.
var ErrMalformed = fmt.Errorf("malformed compressed input")

// A node is a vertex of the coding tree.
// Leaves carry a symbol; internal nodes carry two children.
type node struct {
	symbol int
	weight int64
	left   *node
	right  *node
}

func (n *node) leaf() bool { return n.left == nil && n.right == nil }

// Compress writes the Huffman-compressed form of src to dst.
// src is scanned twice, once to gather symbol frequencies and once to encode,
// which is why it must be seekable.
func Compress(dst io.Writer, src io.ReadSeeker) error {
	in := bitio.NewReader(src)
	freq, err := readCounts(in)
	if err != nil {
		return err
	}
	root, err := buildTree(freq)
	if err != nil {
		return err
	}
	codes, err := buildCodes(root)
	if err != nil {
		return err
	}

	out := bitio.NewWriter(dst)
	if err := out.WriteBits(bitsPerInt, huffTree); err != nil {
		return err
	}
	if err := writeHeader(root, out); err != nil {
		return err
	}
	if err := writeBody(codes, in, out); err != nil {
		return err
	}
	return out.Close()
}

// Decompress reverses Compress, writing the original bytes to dst.
// ErrMalformed is returned if src is not well-formed compressed data.
func Decompress(dst io.Writer, src io.Reader) error {
	in := bitio.NewReader(src)
	magic, err := in.ReadBits(bitsPerInt)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrMalformed, "missing magic number")
	}
	if err != nil {
		return err
	}
	if magic != huffTree {
		return errors.Wrapf(ErrMalformed, "bad magic number %#x", magic)
	}

	root, err := readHeader(in, 0)
	if err != nil {
		return err
	}
	// The encoder never emits a lone-leaf tree: even a one-symbol alphabet
	// gets a root with two children. A leaf root would send the body walk
	// into nil children, so reject it here.
	if root.leaf() {
		return errors.Wrap(ErrMalformed, "tree header is a lone leaf")
	}
	out := bitio.NewWriter(dst)
	if err := readBody(root, in, out); err != nil {
		return err
	}
	return out.Close()
}

// readCounts tallies the occurrences of every byte value in the input,
// leaving the input rewound to its start.
// The pseudo end-of-stream symbol is given a count of one, so that it is
// present in the tree even when the input is empty.
func readCounts(in *bitio.Reader) ([]int64, error) {
	freq := make([]int64, alphSize+1)
	for {
		b, err := in.ReadBits(bitsPerWord)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "count symbols")
		}
		freq[b]++
	}
	if err := in.Reset(); err != nil {
		return nil, err
	}
	freq[pseudoEOF] = 1
	return freq, nil
}

// buildTree builds the coding tree over all symbols with positive count.
// The two lightest nodes are merged repeatedly, first extracted becoming the
// left child, until a single root remains. Ties in weight are broken by
// insertion order, so the tree, and with it the compressed bytes, are
// deterministic: among equally light nodes the lower symbol wins, and
// earlier-merged nodes win over later ones.
func buildTree(freq []int64) (*node, error) {
	h := &nodeHeap{}
	for sym, w := range freq {
		if w > 0 {
			h.push(&node{symbol: sym, weight: w})
		}
	}
	if h.Len() == 0 {
		return nil, errors.New("empty frequency table")
	}

	for h.Len() > 1 {
		left := h.pop()
		right := h.pop()
		h.push(&node{symbol: -1, weight: left.weight + right.weight, left: left, right: right})
	}
	root := h.pop()

	if root.leaf() {
		// Only the end-of-stream symbol is present (the input was empty).
		// A lone leaf would get a zero-length code, so give the root one
		// level, with the symbol reachable on either side.
		root = &node{
			symbol: -1,
			weight: root.weight,
			left:   root,
			right:  &node{symbol: root.symbol},
		}
	}
	return root, nil
}

// A code is the bit path from the tree root to a symbol's leaf,
// packed most significant bit first. Left edges are 0, right edges 1.
type code struct {
	bits uint64
	n    uint
}

// buildCodes derives the code of every symbol in the tree.
// The codes are prefix-free, since no leaf lies on the path to another.
func buildCodes(root *node) ([]code, error) {
	codes := make([]code, alphSize+1)
	if err := walk(root, code{}, codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func walk(n *node, path code, codes []code) error {
	if n.leaf() {
		codes[n.symbol] = path
		return nil
	}
	if path.n == 64 {
		// Reaching here takes a pathological input of tens of terabytes.
		return errors.Errorf("code longer than 64 bits for tree of weight %d", n.weight)
	}
	if err := walk(n.left, code{bits: path.bits << 1, n: path.n + 1}, codes); err != nil {
		return err
	}
	return walk(n.right, code{bits: path.bits<<1 | 1, n: path.n + 1}, codes)
}

// writeHeader serializes the tree in pre-order: a 0 bit for an internal node
// followed by its two subtrees, a 1 bit and the symbol for a leaf.
// The end of the header is implicit in the recursion, there is no length field.
func writeHeader(n *node, out *bitio.Writer) error {
	if n.leaf() {
		if err := out.WriteBits(1, 1); err != nil {
			return err
		}
		return out.WriteBits(symbolBits, uint64(n.symbol))
	}
	if err := out.WriteBits(1, 0); err != nil {
		return err
	}
	if err := writeHeader(n.left, out); err != nil {
		return err
	}
	return writeHeader(n.right, out)
}

// readHeader mirrors writeHeader, rebuilding the tree from the header bits.
// Weights are not part of the header and stay zero; decoding does not need them.
func readHeader(in *bitio.Reader, depth int) (*node, error) {
	if depth > maxDepth {
		return nil, errors.Wrap(ErrMalformed, "tree header too deep")
	}
	bit, err := in.ReadBits(1)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, errors.Wrap(ErrMalformed, "truncated tree header")
	}
	if err != nil {
		return nil, err
	}

	if bit == 0 {
		left, err := readHeader(in, depth+1)
		if err != nil {
			return nil, err
		}
		right, err := readHeader(in, depth+1)
		if err != nil {
			return nil, err
		}
		return &node{symbol: -1, left: left, right: right}, nil
	}

	sym, err := in.ReadBits(symbolBits)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, errors.Wrap(ErrMalformed, "truncated tree header")
	}
	if err != nil {
		return nil, err
	}
	return &node{symbol: int(sym)}, nil
}

// writeBody encodes the input a byte at a time, then terminates the stream
// with the code of the pseudo end-of-stream symbol.
func writeBody(codes []code, in *bitio.Reader, out *bitio.Writer) error {
	for {
		b, err := in.ReadBits(bitsPerWord)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		c := codes[b]
		if err := out.WriteBits(c.n, c.bits); err != nil {
			return err
		}
	}
	c := codes[pseudoEOF]
	return out.WriteBits(c.n, c.bits)
}

// readBody walks the tree one bit at a time, restarting from the root after
// each decoded byte, until it reaches the end-of-stream leaf.
// Bits after that leaf, such as the final byte's padding, are left unread.
func readBody(root *node, in *bitio.Reader, out *bitio.Writer) error {
	cur := root
	for {
		bit, err := in.ReadBits(1)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrap(ErrMalformed, "no end-of-stream marker")
		}
		if err != nil {
			return err
		}

		if bit == 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
		if !cur.leaf() {
			continue
		}
		if cur.symbol == pseudoEOF {
			return nil
		}
		if err := out.WriteBits(bitsPerWord, uint64(cur.symbol)); err != nil {
			return err
		}
		cur = root
	}
}
