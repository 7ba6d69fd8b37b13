package songxml

import (
	"bytes"
	"regexp"
)

var (
	slideTags  = [][]byte{[]byte("<slide>"), []byte("<slide2>")}
	cdataStart = []byte("<![CDATA[")

	// entityRef matches a character or entity reference at the start of a slice.
	entityRef = regexp.MustCompile(`^&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#x[0-9A-Fa-f]+);`)
)

// escapeSlideBodies turns the lyric markup inside <slide> and <slide2> into
// character data so the strict decoder accepts it. Lyrics carry <BR> line
// breaks and <slide> separators that are not closed, and payloads come both
// with that markup written literally and already escaped. A body runs to the
// first matching close tag. Bodies holding CDATA are left alone.
func escapeSlideBodies(payload []byte) []byte {
	var out bytes.Buffer
	rest := payload
	for {
		start, tag := nextSlideTag(rest)
		if start < 0 {
			break
		}
		bodyStart := start + len(tag)
		closeTag := append([]byte("</"), tag[1:]...)
		end := bytes.Index(rest[bodyStart:], closeTag)
		if end < 0 {
			break
		}

		if out.Len() == 0 {
			out.Grow(len(payload) + len(payload)/8)
		}
		out.Write(rest[:bodyStart])
		escapeBody(&out, rest[bodyStart:bodyStart+end])
		out.Write(closeTag)
		rest = rest[bodyStart+end+len(closeTag):]
	}

	if out.Len() == 0 {
		return payload
	}
	out.Write(rest)
	return out.Bytes()
}

func nextSlideTag(b []byte) (int, []byte) {
	pos, found := -1, []byte(nil)
	for _, tag := range slideTags {
		if i := bytes.Index(b, tag); i >= 0 && (pos < 0 || i < pos) {
			pos, found = i, tag
		}
	}
	return pos, found
}

func escapeBody(out *bytes.Buffer, body []byte) {
	if bytes.Contains(body, cdataStart) {
		out.Write(body)
		return
	}
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			if entityRef.Match(body[i:]) {
				out.WriteByte(c)
			} else {
				out.WriteString("&amp;")
			}
		default:
			out.WriteByte(c)
		}
	}
}
