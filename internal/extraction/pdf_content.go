package extraction

import (
	"strconv"
	"strings"
)

// pageDim is a page's MediaBox size in user-space units.
type pageDim struct {
	width  float64
	height float64
}

// pageContent is what one page's content stream yields: shown text, the
// user-space area covered by XObject draws, and the font sizes selected.
type pageContent struct {
	text      string
	imageArea float64
	fontSizes map[float64]struct{}
}

// pageStats condenses a page for the scanned-document assessment.
type pageStats struct {
	textLen       int
	imageCoverage float64
	fontCount     int
	text          string
}

func (pc *pageContent) stats(dim pageDim) pageStats {
	s := pageStats{
		textLen:   len(strings.TrimSpace(pc.text)),
		fontCount: len(pc.fontSizes),
		text:      pc.text,
	}
	if area := dim.width * dim.height; area > 0 {
		s.imageCoverage = pc.imageArea / area
		if s.imageCoverage > 1 {
			s.imageCoverage = 1
		}
	}
	return s
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix struct {
	a, b, c, d, e, f float64
}

var identityMatrix = matrix{a: 1, d: 1}

// mul returns m applied before n, as cm premultiplies the CTM.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.b*n.c,
		b: m.a*n.b + m.b*n.d,
		c: m.c*n.a + m.d*n.c,
		d: m.c*n.b + m.d*n.d,
		e: m.e*n.a + m.f*n.c + n.e,
		f: m.e*n.b + m.f*n.d + n.f,
	}
}

// area returns the user-space area of the transformed unit square, which
// is how XObject draws are sized.
func (m matrix) area() float64 {
	det := m.a*m.d - m.b*m.c
	if det < 0 {
		det = -det
	}
	return det
}

const (
	opNumber = iota
	opString
	opName
	opArray
	opOperator
)

type operand struct {
	kind int
	str  string
	num  float64
	arr  []operand
}

// kern gaps in TJ arrays at or past this magnitude (thousandths of an em)
// are treated as word breaks.
const wordBreakKern = -180

// parsePageContent decodes the text-showing, XObject, and font operators
// from one page's raw content stream. The parser is deliberately lenient:
// anything it cannot make sense of is skipped.
func parsePageContent(stream []byte) *pageContent {
	pc := &pageContent{fontSizes: make(map[float64]struct{})}
	if len(stream) == 0 {
		return pc
	}

	p := &contentScanner{data: stream}
	ctm := identityMatrix
	var ctmStack []matrix
	var operands []operand
	var parts []string

	boundary := func() {
		if n := len(parts); n > 0 && parts[n-1] != " " {
			parts = append(parts, " ")
		}
	}

	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		if tok.kind != opOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.str {
		case "Tj", "'", "\"":
			if s, ok := lastString(operands); ok && s != "" {
				if tok.str != "Tj" {
					boundary()
				}
				parts = append(parts, s)
			}
		case "TJ":
			if arr, ok := lastArray(operands); ok {
				for _, el := range arr {
					switch el.kind {
					case opString:
						if el.str != "" {
							parts = append(parts, el.str)
						}
					case opNumber:
						if el.num <= wordBreakKern {
							boundary()
						}
					}
				}
			}
		case "Td", "TD", "T*", "Tm", "ET":
			boundary()
		case "Tf":
			if n := len(operands); n > 0 && operands[n-1].kind == opNumber {
				pc.fontSizes[operands[n-1].num] = struct{}{}
			}
		case "cm":
			if m, ok := matrixFrom(operands); ok {
				ctm = m.mul(ctm)
			}
		case "q":
			ctmStack = append(ctmStack, ctm)
		case "Q":
			if n := len(ctmStack); n > 0 {
				ctm = ctmStack[n-1]
				ctmStack = ctmStack[:n-1]
			}
		case "Do":
			// Counts form XObjects too; coverage is a heuristic signal.
			pc.imageArea += ctm.area()
		case "BI":
			p.skipInlineImage()
			pc.imageArea += ctm.area()
		}
		operands = operands[:0]
	}

	pc.text = strings.TrimSpace(strings.Join(parts, ""))
	return pc
}

func lastString(operands []operand) (string, bool) {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == opString {
			return operands[i].str, true
		}
	}
	return "", false
}

func lastArray(operands []operand) ([]operand, bool) {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == opArray {
			return operands[i].arr, true
		}
	}
	return nil, false
}

// matrixFrom reads the six trailing numbers of a cm operand list.
func matrixFrom(operands []operand) (matrix, bool) {
	var nums []float64
	for _, op := range operands {
		if op.kind == opNumber {
			nums = append(nums, op.num)
		}
	}
	if len(nums) < 6 {
		return matrix{}, false
	}
	n := nums[len(nums)-6:]
	return matrix{a: n[0], b: n[1], c: n[2], d: n[3], e: n[4], f: n[5]}, true
}

// contentScanner tokenizes a PDF content stream.
type contentScanner struct {
	data []byte
	pos  int
}

func isPDFWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *contentScanner) skipWhitespace() {
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		if isPDFWhitespace(b) {
			s.pos++
			continue
		}
		if b == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		return
	}
}

func (s *contentScanner) next() (operand, bool) {
	s.skipWhitespace()
	if s.pos >= len(s.data) {
		return operand{}, false
	}

	b := s.data[s.pos]
	switch {
	case b == '(':
		s.pos++
		return operand{kind: opString, str: s.readLiteralString()}, true
	case b == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.skipDict()
			return s.next()
		}
		s.pos++
		return operand{kind: opString, str: s.readHexString()}, true
	case b == '[':
		s.pos++
		return operand{kind: opArray, arr: s.readArray()}, true
	case b == ']':
		s.pos++
		return s.next()
	case b == '/':
		s.pos++
		return operand{kind: opName, str: s.readToken()}, true
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		tok := s.readToken()
		if num, err := strconv.ParseFloat(tok, 64); err == nil {
			return operand{kind: opNumber, num: num}, true
		}
		return operand{kind: opOperator, str: tok}, true
	default:
		return operand{kind: opOperator, str: s.readToken()}, true
	}
}

// readToken consumes up to the next whitespace or delimiter.
func (s *contentScanner) readToken() string {
	start := s.pos
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		if isPDFWhitespace(b) || isPDFDelimiter(b) {
			break
		}
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// readLiteralString decodes a (...) string, the opening paren consumed.
// Raw bytes above 0x7f are widened as Latin-1 so the result is valid UTF-8.
func (s *contentScanner) readLiteralString() string {
	var sb strings.Builder
	depth := 1

	for s.pos < len(s.data) {
		b := s.data[s.pos]
		s.pos++

		switch b {
		case '\\':
			if s.pos >= len(s.data) {
				return sb.String()
			}
			esc := s.data[s.pos]
			s.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
				// no text value
			case '\n':
				// line continuation
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				code := int(esc - '0')
				for i := 0; i < 2 && s.pos < len(s.data); i++ {
					d := s.data[s.pos]
					if d < '0' || d > '7' {
						break
					}
					code = code*8 + int(d-'0')
					s.pos++
				}
				sb.WriteRune(rune(code & 0xff))
			default:
				sb.WriteByte(esc)
			}
		case '(':
			depth++
			sb.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(b)
		default:
			sb.WriteRune(rune(b))
		}
	}
	return sb.String()
}

// readHexString decodes a <...> string, the opening bracket consumed.
// CID-encoded strings decode to unreadable bytes, so the result is kept
// only when it is mostly printable.
func (s *contentScanner) readHexString() string {
	var digits []byte
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		s.pos++
		if b == '>' {
			break
		}
		if (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') {
			digits = append(digits, b)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	var sb strings.Builder
	printable := 0
	total := 0
	for i := 0; i+1 < len(digits); i += 2 {
		hi, _ := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		b := byte(hi)
		total++
		if b >= 0x20 && b < 0x7f {
			printable++
		}
		sb.WriteRune(rune(b))
	}
	if total == 0 || float64(printable)/float64(total) < 0.6 {
		return ""
	}
	return sb.String()
}

// readArray consumes tokens up to the matching close bracket.
func (s *contentScanner) readArray() []operand {
	var arr []operand
	for {
		s.skipWhitespace()
		if s.pos >= len(s.data) {
			return arr
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return arr
		}
		tok, ok := s.next()
		if !ok {
			return arr
		}
		arr = append(arr, tok)
	}
}

// skipDict consumes a <<...>> dictionary, balancing nesting and skipping
// over string contents.
func (s *contentScanner) skipDict() {
	depth := 0
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		if b == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			depth++
			s.pos += 2
			continue
		}
		if b == '>' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '>' {
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		if b == '(' {
			s.pos++
			s.readLiteralString()
			continue
		}
		s.pos++
	}
}

// skipInlineImage consumes from after BI through the EI marker.
func (s *contentScanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' {
			before := s.pos == 0 || isPDFWhitespace(s.data[s.pos-1])
			after := s.pos+2 >= len(s.data) || isPDFWhitespace(s.data[s.pos+2])
			if before && after {
				s.pos += 2
				return
			}
		}
		s.pos++
	}
	s.pos = len(s.data)
}
