package newick

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadNexus extracts the first tree from the TREES block of a Nexus file.
// The TRANSLATE table, when present, is applied to node names, and a
// leading [&R]/[&U] rooting comment on the tree statement is dropped.
func ReadNexus(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("newick: read nexus input: %w", err)
	}

	block, err := treesBlock(string(data))
	if err != nil {
		return nil, err
	}

	translate := make(map[string]string)
	for _, stmt := range splitStatements(block) {
		keyword, rest, _ := strings.Cut(strings.TrimSpace(stmt), " ")
		switch strings.ToLower(keyword) {
		case "translate":
			if err := parseTranslate(rest, translate); err != nil {
				return nil, err
			}
		case "tree":
			_, treeStr, found := strings.Cut(rest, "=")
			if !found {
				return nil, errors.New("newick: malformed tree statement in nexus input")
			}
			root, err := Parse(stripRooting(treeStr))
			if err != nil {
				return nil, err
			}
			if len(translate) > 0 {
				root.Walk(func(n *Node) {
					if repl, ok := translate[n.Name]; ok {
						n.Name = repl
					}
				})
			}
			return root, nil
		}
	}

	return nil, errors.New("newick: no tree statement in nexus trees block")
}

// treesBlock returns the contents of the first "begin trees; ... end;"
// section, without the begin/end statements themselves.
func treesBlock(text string) (string, error) {
	lower := strings.ToLower(text)
	start := strings.Index(lower, "begin trees")
	if start < 0 {
		return "", errors.New("newick: no trees block in nexus input")
	}
	// Skip past the "begin trees;" statement.
	bodyStart := strings.IndexByte(text[start:], ';')
	if bodyStart < 0 {
		return "", errors.New("newick: malformed trees block in nexus input")
	}
	body := text[start+bodyStart+1:]

	end := strings.Index(strings.ToLower(body), "end;")
	if end >= 0 {
		body = body[:end]
	}
	return body, nil
}

// splitStatements splits a nexus block on semicolons that are outside
// single-quoted names and bracketed comments.
func splitStatements(block string) []string {
	var stmts []string
	var sb strings.Builder
	inQuote, inComment := false, false

	for i := 0; i < len(block); i++ {
		c := block[i]
		switch {
		case inQuote:
			if c == '\'' {
				inQuote = false
			}
		case inComment:
			if c == ']' {
				inComment = false
			}
		case c == '\'':
			inQuote = true
		case c == '[':
			inComment = true
		case c == ';':
			stmts = append(stmts, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteByte(c)
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// parseTranslate fills table from the body of a TRANSLATE statement:
// comma-separated "key label" pairs, labels optionally quoted.
func parseTranslate(body string, table map[string]string) error {
	for _, entry := range splitEntries(body) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, label, found := cutWhitespace(entry)
		if !found {
			return fmt.Errorf("newick: malformed translate entry %q", entry)
		}
		table[key] = unquote(strings.TrimSpace(label))
	}
	return nil
}

// splitEntries splits on commas outside single quotes.
func splitEntries(s string) []string {
	var entries []string
	var sb strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == ',' && !inQuote:
			entries = append(entries, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteByte(c)
	}
	entries = append(entries, sb.String())
	return entries
}

// cutWhitespace splits s at the first run of whitespace.
func cutWhitespace(s string) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return s[:i], strings.TrimLeft(s[i:], " \t\r\n"), true
		}
	}
	return s, "", false
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// stripRooting drops leading whitespace and the [&R]/[&U] rooting comment
// that precedes the tree proper.
func stripRooting(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return s
		}
		s = strings.TrimSpace(s[end+1:])
	}
	return s
}
