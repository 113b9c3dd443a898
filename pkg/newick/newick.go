package newick

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a node in a phylogenetic tree. A leaf has no children.
type Node struct {
	Name      string
	Length    float64
	HasLength bool
	Comment   string // bracketed comment without the brackets
	Children  []*Node
}

// Walk visits n and every descendant in depth-first preorder.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns the leaf nodes in left-to-right order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(node *Node) {
		if len(node.Children) == 0 {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

// String renders the tree with default options, including the trailing
// semicolon.
func (n *Node) String() string {
	var sb strings.Builder
	Write(&sb, n) // strings.Builder never errors
	return sb.String()
}

// Options configures tree writing.
type Options struct {
	BranchLengths bool
	Comments      bool
}

// Option is a functional option for configuring tree writing.
type Option func(*Options)

// WithBranchLengths controls whether branch lengths are written.
// Default is true.
func WithBranchLengths(include bool) Option {
	return func(o *Options) {
		o.BranchLengths = include
	}
}

// WithComments controls whether node comments are written.
// Default is true.
func WithComments(include bool) Option {
	return func(o *Options) {
		o.Comments = include
	}
}

// Write renders root as a Newick string followed by ";\n".
func Write(w io.Writer, root *Node, options ...Option) error {
	opts := Options{BranchLengths: true, Comments: true}
	for _, opt := range options {
		opt(&opts)
	}
	if root == nil {
		return errors.New("newick: nil tree")
	}

	var sb strings.Builder
	writeNode(&sb, root, opts)
	sb.WriteString(";\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeNode(sb *strings.Builder, n *Node, opts Options) {
	if len(n.Children) > 0 {
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNode(sb, c, opts)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(quoteName(n.Name))
	if opts.Comments && n.Comment != "" {
		sb.WriteByte('[')
		sb.WriteString(n.Comment)
		sb.WriteByte(']')
	}
	if opts.BranchLengths && n.HasLength {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

// quoteName single-quotes a name when it contains structural characters.
func quoteName(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, " \t\n(),:;[]'") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Parse parses a single Newick tree. The trailing semicolon is optional.
func Parse(s string) (*Node, error) {
	p := &parser{s: s}
	p.skipSpace()

	root, err := p.parseSubtree()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == ';' {
		p.pos++
		p.skipSpace()
	}
	if p.pos < len(p.s) {
		return nil, fmt.Errorf("newick: unexpected trailing data at offset %d", p.pos)
	}
	return root, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *parser) parseSubtree() (*Node, error) {
	n := &Node{}

	if c, ok := p.peek(); ok && c == '(' {
		p.pos++
		for {
			p.skipSpace()
			child, err := p.parseSubtree()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)

			p.skipSpace()
			c, ok := p.peek()
			if !ok {
				return nil, errors.New("newick: unexpected end of input inside clade")
			}
			if c == ',' {
				p.pos++
				continue
			}
			if c == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("newick: expected ',' or ')' at offset %d", p.pos)
		}
	}

	if err := p.parseLabel(n); err != nil {
		return nil, err
	}
	return n, nil
}

// parseLabel parses the optional name, comment, and branch length that
// follow a leaf or a closing parenthesis. Comments may appear both before
// and after the branch length.
func (p *parser) parseLabel(n *Node) error {
	p.skipSpace()

	if c, ok := p.peek(); ok {
		switch {
		case c == '\'':
			name, err := p.parseQuoted()
			if err != nil {
				return err
			}
			n.Name = name
		case !isStructural(c):
			n.Name = p.parseBare()
		}
	}

	if err := p.parseComment(n); err != nil {
		return err
	}

	p.skipSpace()
	if c, ok := p.peek(); ok && c == ':' {
		p.pos++
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.s) && !isStructural(p.s[p.pos]) && !isSpace(p.s[p.pos]) {
			p.pos++
		}
		length, err := strconv.ParseFloat(p.s[start:p.pos], 64)
		if err != nil {
			return fmt.Errorf("newick: invalid branch length at offset %d: %w", start, err)
		}
		n.Length = length
		n.HasLength = true
	}

	return p.parseComment(n)
}

func (p *parser) parseComment(n *Node) error {
	p.skipSpace()
	c, ok := p.peek()
	if !ok || c != '[' {
		return nil
	}
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return fmt.Errorf("newick: unterminated comment at offset %d", p.pos)
	}
	comment := p.s[p.pos+1 : p.pos+end]
	p.pos += end + 1
	if n.Comment == "" {
		n.Comment = comment
	}
	return nil
}

func (p *parser) parseQuoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.s) && p.s[p.pos+1] == '\'' {
				sb.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return sb.String(), nil
		}
		sb.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("newick: unterminated quoted name at offset %d", start)
}

func (p *parser) parseBare() string {
	start := p.pos
	for p.pos < len(p.s) && !isStructural(p.s[p.pos]) && !isSpace(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func isStructural(c byte) bool {
	switch c {
	case '(', ')', ',', ':', ';', '[', ']', '\'':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
