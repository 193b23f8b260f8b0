// Package output writes interpreter responses to the terminal.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	ContentTypeJSON = "application/json"

	indent = "  "
)

// Write pretty-prints JSON responses and copies everything else unchanged.
// Both are streamed; nothing is held back beyond the current token.
func Write(w io.Writer, contentType string, r io.Reader) error {
	if contentType == ContentTypeJSON {
		return writeJSON(w, r)
	}

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("unable to write response: %w", err)
	}

	return nil
}

type frame struct {
	object bool
	// wantKey is set inside objects while the next token is a member name.
	wantKey bool
	members int
}

type printer struct {
	w     *bufio.Writer
	stack []frame
	err   error

	scratch bytes.Buffer
	enc     *json.Encoder
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: bufio.NewWriter(w)}
	p.enc = json.NewEncoder(&p.scratch)
	p.enc.SetEscapeHTML(false)
	return p
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = p.w.WriteString(s)
}

func (p *printer) newline(depth int) {
	p.write("\n")
	p.write(strings.Repeat(indent, depth))
}

// token prints one token from the decoder, placing separators and
// indentation from the enclosing containers.
func (p *printer) token(tok json.Token) {
	if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if top.members > 0 {
			p.newline(len(p.stack))
		}
		p.write(d.String())
		p.valueDone()
		return
	}

	key := false
	if len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		if !top.object || top.wantKey {
			if top.members > 0 {
				p.write(",")
			}
			p.newline(len(p.stack))
			top.members++
		}
		if top.object && top.wantKey {
			key = true
			top.wantKey = false
		}
	}

	switch v := tok.(type) {
	case json.Delim:
		p.write(v.String())
		p.stack = append(p.stack, frame{object: v == '{', wantKey: v == '{'})
		return
	case string:
		p.quote(v)
	case json.Number:
		p.write(v.String())
	case bool:
		if v {
			p.write("true")
		} else {
			p.write("false")
		}
	case nil:
		p.write("null")
	}

	if key {
		p.write(": ")
		return
	}
	p.valueDone()
}

func (p *printer) quote(s string) {
	p.scratch.Reset()
	if err := p.enc.Encode(s); err != nil {
		p.err = err
		return
	}
	p.write(strings.TrimSuffix(p.scratch.String(), "\n"))
}

func (p *printer) valueDone() {
	if len(p.stack) == 0 {
		p.write("\n")
		return
	}
	if top := &p.stack[len(p.stack)-1]; top.object {
		top.wantKey = true
	}
}

// writeJSON indents every top-level value in the stream and ends each with
// a newline.
func writeJSON(w io.Writer, r io.Reader) error {
	p := newPrinter(w)

	dec := json.NewDecoder(r)
	dec.UseNumber()

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(p.stack) > 0 {
				err = io.ErrUnexpectedEOF
			} else {
				break
			}
		}
		if err != nil {
			_ = p.w.Flush()
			return fmt.Errorf("unable to pretty-print JSON response: %w", err)
		}

		p.token(tok)
		if p.err != nil {
			return fmt.Errorf("unable to write response: %w", p.err)
		}
	}

	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("unable to write response: %w", err)
	}

	return nil
}
