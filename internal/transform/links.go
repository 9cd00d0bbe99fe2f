package transform

import (
	"bufio"
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
)

var (
	// typeTokenPattern matches an acronym-led type name (NSURLSession,
	// UIViewController) after whitespace, <code>, an escaped "<" or the
	// opening of a syntax-highlighted type span.
	typeTokenPattern = regexp.MustCompile(`(\s|<code>|&lt;|"syntax-type">)([A-Z]{2,}(?:[A-Z][a-z]+)+)`)
	// linkPattern also matches whole anchors, which are copied through
	// unchanged. Tokens inside an anchor are therefore never linked and a
	// second pass over linked output is a no-op. A self-closing <a/> is not
	// an anchor, and an anchor body never runs past the next <a opening, so
	// an unclosed tag cannot hide the tokens that follow it.
	linkPattern = regexp.MustCompile(`<a\b(?:[^>]*[^/>])?>(?:[^<]|<[^a/]|<a[^\s>]|</[^a]|</a[^>])*?</a>|` +
		typeTokenPattern.String())
)

// Resolver finds the document that defines a type name.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, bool, error)
}

// LinkTypes wraps every resolvable type token in body with a link to its
// document and returns the new body with the number of links injected.
// Unresolved tokens are left exactly as they were. The first resolver
// error stops linking and is returned.
func LinkTypes(ctx context.Context, body []byte, r Resolver) ([]byte, int, error) {
	var firstErr error
	links := 0
	out := linkPattern.ReplaceAllFunc(body, func(match []byte) []byte {
		if firstErr != nil {
			return match
		}
		parts := linkPattern.FindSubmatch(match)
		if parts == nil || parts[2] == nil {
			return match
		}
		name := string(parts[2])
		file, ok, err := r.Resolve(ctx, name)
		if err != nil {
			firstErr = err
			return match
		}
		if !ok {
			return match
		}
		links++

		var b bytes.Buffer
		b.Write(parts[1])
		b.WriteString(`<a class="symbol-name" href="`)
		b.WriteString(html.EscapeString(file))
		b.WriteString(`"><code>`)
		b.WriteString(name)
		b.WriteString(`</code></a>`)
		return b.Bytes()
	})
	if firstErr != nil {
		return nil, 0, firstErr
	}
	return out, links, nil
}

// ReadIfTypeToken reads r line by line until a type token shows up and only
// then reads the rest. It reports false, without content, for documents
// that contain no token at all.
func ReadIfTypeToken(r io.Reader) ([]byte, bool, error) {
	br := bufio.NewReader(r)
	var buf []byte
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			start := len(buf)
			buf = append(buf, line...)
			// Include the previous byte so a token right after a newline
			// is seen the same way the full-text pattern sees it.
			if start > 0 {
				start--
			}
			if typeTokenPattern.Match(buf[start:]) {
				rest, rerr := io.ReadAll(br)
				if rerr != nil {
					return nil, false, rerr
				}
				return append(buf, rest...), true, nil
			}
		}
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
	}
}
