// Package zwom parses the ZWOM workout description language into the typed
// block model. Parsing is grammar-driven: a lexer tokenizes the source, a
// recursive-descent parser builds a transient parse tree, and a visitor
// flattens the tree into ordered blocks.
package zwom

import (
	"strings"

	"github.com/sco1/zwom/internal/models"
)

// parser consumes tokens with one token of lookahead.
type parser struct {
	lex  *lexer
	cur  token
	peek token
}

// Parse parses ZWOM source into an ordered raw block sequence. The blocks
// are unvalidated: schema and repeat-region rules are the interpreter's
// concern. Empty or whitespace-only source yields an empty workout. A
// grammar mismatch returns a *SyntaxError.
func Parse(src string) (models.Workout, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	tree, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return buildWorkout(tree), nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	next, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = next
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.cur.Kind != kind {
		return token{}, syntaxErrorf(p.cur.Pos, "expected %s, found %s", kind, p.cur.Kind)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// parseDocument parses a sequence of blocks. Each block result arrives
// wrapped in its own sub-sequence, mirroring the grammar's repetition
// structure, so the visitor recovers blocks by flattening.
func (p *parser) parseDocument() (seq, error) {
	var doc seq
	for p.cur.Kind != tokEOF {
		blk, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		doc = append(doc, seq{blk})
	}
	return doc, nil
}

// parseBlock parses TAG { (message | assignment) ","? ... }.
func (p *parser) parseBlock() (node, error) {
	word, err := p.expect(tokWord)
	if err != nil {
		return nil, err
	}
	tag, err := models.ParseTag(word.Text)
	if err != nil {
		return nil, syntaxErrorf(word.Pos, "unknown keyword %q", word.Text)
	}

	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}

	body := seq{leaf{tok: open}}
	for p.cur.Kind != tokRBrace {
		if p.cur.Kind == tokEOF {
			return nil, syntaxErrorf(open.Pos, "unclosed block: missing '}'")
		}

		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}

		// The optional trailing comma stays in the tree as a leaf inside
		// the item's wrapper sequence.
		wrapper := seq{item}
		if p.cur.Kind == tokComma {
			comma, err := p.expect(tokComma)
			if err != nil {
				return nil, err
			}
			wrapper = append(wrapper, leaf{tok: comma})
		}
		body = append(body, wrapper)
	}

	closing, err := p.expect(tokRBrace)
	if err != nil {
		return nil, err
	}
	body = append(body, leaf{tok: closing})

	return blockNode{tag: tag, body: body}, nil
}

// parseBlockItem parses one message or assignment.
func (p *parser) parseBlockItem() (node, error) {
	if p.cur.Kind == tokAt {
		return p.parseMessage()
	}
	return p.parseAssignment()
}

// parseMessage parses "@" duration quotedString.
func (p *parser) parseMessage() (node, error) {
	if _, err := p.expect(tokAt); err != nil {
		return nil, err
	}
	durTok, err := p.expect(tokDuration)
	if err != nil {
		return nil, err
	}
	strTok, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	return messageNode{msg: models.Message{
		Timestamp: models.DurationFromClock(durTok.Num, durTok.Num2),
		Text:      models.Text(dedent(strTok.Text)),
	}}, nil
}

// parseAssignment parses TAG (quotedString | range | scalar).
func (p *parser) parseAssignment() (node, error) {
	word, err := p.expect(tokWord)
	if err != nil {
		return nil, err
	}
	key, err := models.ParseTag(word.Text)
	if err != nil {
		return nil, syntaxErrorf(word.Pos, "unknown keyword %q", word.Text)
	}

	if p.cur.Kind == tokString {
		strTok, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return paramNode{key: key, val: models.Text(dedent(strTok.Text))}, nil
	}

	left, err := p.parseScalar()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == tokArrow {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseScalar()
		if err != nil {
			return nil, err
		}
		return paramNode{key: key, val: models.Range{Left: left, Right: right}}, nil
	}
	return paramNode{key: key, val: left}, nil
}

// parseScalar parses duration | percent | zone | integer.
func (p *parser) parseScalar() (models.Value, error) {
	tok := p.cur
	switch tok.Kind {
	case tokDuration:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return models.DurationFromClock(tok.Num, tok.Num2), nil
	case tokPercent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return models.Percentage(tok.Num), nil
	case tokInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return models.Integer(tok.Num), nil
	case tokWord:
		zone, err := models.ParseZone(tok.Text)
		if err != nil {
			return nil, syntaxErrorf(tok.Pos, "expected a value, found %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return zone, nil
	}
	return nil, syntaxErrorf(tok.Pos, "expected a value, found %s", tok.Kind)
}

// buildWorkout recovers the ordered blocks from the parse tree. Each block
// body is flattened twice over the same subtree: once for parameter
// assignments, once for messages.
func buildWorkout(doc seq) models.Workout {
	var workout models.Workout
	for _, n := range flatten(doc, isBlockNode) {
		blk := n.(blockNode)

		params := make(map[models.Tag]models.Value)
		for _, pn := range flatten(blk.body, isParamNode) {
			param := pn.(paramNode)
			params[param.key] = param.val
		}

		var messages []models.Message
		for _, mn := range flatten(blk.body, isMessageNode) {
			messages = append(messages, mn.(messageNode).msg)
		}

		workout = append(workout, models.Block{
			Tag:      blk.tag,
			Params:   params,
			Messages: messages,
		})
	}
	return workout
}

// dedent strips the common leading whitespace of a multi-line string's
// continuation lines. The first line starts immediately after the opening
// quote and is left alone; this normalizes text embedded in an indented
// source file while preserving the newlines themselves.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return s
	}

	margin := ""
	first := true
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		margin = commonPrefix(margin, indent)
	}
	if margin == "" {
		return s
	}

	for i, line := range lines[1:] {
		lines[i+1] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
