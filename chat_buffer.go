package voxelcore

import "unicode"

// ChatBuffer holds a bounded scrollback of unformatted chat lines plus a
// parallel formatted view. rows==cols==0 means "not yet laid out".
type ChatBuffer struct {
	scrollback uint32

	unformatted []ChatLine

	rows, cols uint32
	scroll     int32
	formatted  []ChatFormattedLine

	emptyLine ChatFormattedLine
}

// NewChatBuffer builds an empty buffer. A scrollback of 0 is coerced to 1.
func NewChatBuffer(scrollback uint32) *ChatBuffer {
	if scrollback == 0 {
		scrollback = 1
	}
	return &ChatBuffer{
		scrollback: scrollback,
		emptyLine:  ChatFormattedLine{First: true},
	}
}

// AddLine appends an unformatted line, wraps it into the formatted view if
// dimensions are known, then trims to scrollback. A bottom-pinned viewer
// stays pinned across both the append and the trim.
func (b *ChatBuffer) AddLine(name, text string) {
	line := ChatLine{Name: name, Text: text}
	b.unformatted = append(b.unformatted, line)

	pinned := false
	if b.rows > 0 {
		pinned = b.scroll == b.bottomScrollPos()
		added := formatChatLine(line, b.cols)
		b.formatted = append(b.formatted, added...)
		if pinned {
			b.scroll += int32(len(added))
		}
	}

	if uint32(len(b.unformatted)) > b.scrollback {
		b.DeleteOldest(uint32(len(b.unformatted)) - b.scrollback)
		if pinned {
			b.scroll = b.bottomScrollPos()
		}
	}
}

func (b *ChatBuffer) LineCount() uint32 { return uint32(len(b.unformatted)) }

func (b *ChatBuffer) Scrollback() uint32 { return b.scrollback }

// Line returns the i-th unformatted line, or the zero ChatLine if index is
// out of range.
func (b *ChatBuffer) Line(index uint32) ChatLine {
	if index >= uint32(len(b.unformatted)) {
		return ChatLine{}
	}
	return b.unformatted[index]
}

func (b *ChatBuffer) Step(dt float32) {
	for i := range b.unformatted {
		b.unformatted[i].Age += dt
	}
}

// DeleteOldest drops the oldest count unformatted lines and the matching
// prefix of formatted lines, found by walking First markers.
func (b *ChatBuffer) DeleteOldest(count uint32) {
	delUnformatted := uint32(0)
	delFormatted := uint32(0)

	for count > 0 && delUnformatted < uint32(len(b.unformatted)) {
		delUnformatted++

		if delFormatted < uint32(len(b.formatted)) {
			delFormatted++
			for delFormatted < uint32(len(b.formatted)) && !b.formatted[delFormatted].First {
				delFormatted++
			}
		}

		count--
	}

	b.unformatted = append([]ChatLine(nil), b.unformatted[delUnformatted:]...)
	b.formatted = append([]ChatFormattedLine(nil), b.formatted[delFormatted:]...)
}

// DeleteByAge drops the oldest prefix of lines whose age exceeds maxAge.
func (b *ChatBuffer) DeleteByAge(maxAge float32) {
	count := uint32(0)
	for count < uint32(len(b.unformatted)) && b.unformatted[count].Age > maxAge {
		count++
	}
	b.DeleteOldest(count)
}

func (b *ChatBuffer) Rows() uint32 { return b.rows }

func (b *ChatBuffer) Columns() uint32 { return b.cols }

// Reformat updates the console dimensions and rewraps every unformatted
// line from scratch. Either dimension 0 clears the formatted view.
func (b *ChatBuffer) Reformat(rows, cols uint32) {
	if rows == 0 || cols == 0 {
		b.rows = 0
		b.cols = 0
		b.scroll = 0
		b.formatted = nil
		return
	}

	b.rows = rows
	b.cols = cols
	b.formatted = b.formatted[:0]
	for _, line := range b.unformatted {
		b.formatted = append(b.formatted, formatChatLine(line, cols)...)
	}
	b.scroll = b.bottomScrollPos()
}

// GetFormattedLine returns the formatted line at scroll+row, or the empty
// sentinel if that index is out of range.
func (b *ChatBuffer) GetFormattedLine(row uint32) ChatFormattedLine {
	index := b.scroll + int32(row)
	if index >= 0 && index < int32(len(b.formatted)) {
		return b.formatted[index]
	}
	return b.emptyLine
}

// Scroll adjusts the scroll position by a relative number of rows.
func (b *ChatBuffer) Scroll(delta int32) {
	b.ScrollAbsolute(b.scroll + delta)
}

// ScrollAbsolute sets the scroll position, clamping to range.
func (b *ChatBuffer) ScrollAbsolute(scroll int32) {
	top := b.topScrollPos()
	bottom := b.bottomScrollPos()
	if scroll < top {
		scroll = top
	}
	if scroll > bottom {
		scroll = bottom
	}
	b.scroll = scroll
}

func (b *ChatBuffer) ScrollBottom() { b.scroll = b.bottomScrollPos() }

func (b *ChatBuffer) ScrollTop() { b.scroll = b.topScrollPos() }

func (b *ChatBuffer) topScrollPos() int32 {
	count := int32(len(b.formatted))
	rows := int32(b.rows)
	if rows == 0 {
		return 0
	}
	if count <= rows {
		return 0
	}
	return count - rows
}

func (b *ChatBuffer) bottomScrollPos() int32 {
	count := int32(len(b.formatted))
	rows := int32(b.rows)
	if rows == 0 {
		return 0
	}
	return count - rows
}

// wrapFragment is a fragment awaiting layout, before it is assigned a
// column and committed to a row.
type wrapFragment struct {
	text []rune
	bold bool
}

// formatChatLine wraps one ChatLine into one or more ChatFormattedLine
// rows at the given column width: prolog fragments, a hanging indent,
// then greedy word-wrap preferring a whitespace break.
func formatChatLine(line ChatLine, cols uint32) []ChatFormattedLine {
	var destination []ChatFormattedLine

	var nextFrags []wrapFragment
	nextLine := ChatFormattedLine{First: true}
	var outColumn uint32

	nameRunes := []rune(line.Name)
	if len(nameRunes) > 0 {
		nextFrags = append(nextFrags,
			wrapFragment{text: []rune("<"), bold: false},
			wrapFragment{text: nameRunes, bold: true},
			wrapFragment{text: []rune("> "), bold: false},
		)
	}

	var hangingIndent uint32
	switch {
	case len(nameRunes) == 0:
		hangingIndent = 0
	case uint32(len(nameRunes))+3 <= cols/2:
		hangingIndent = uint32(len(nameRunes)) + 3
	default:
		hangingIndent = 2
	}

	textRunes := []rune(line.Text)
	inPos := 0
	textProcessing := false

	for len(nextFrags) > 0 || inPos < len(textRunes) {
		for len(nextFrags) > 0 {
			frag := nextFrags[0]
			if uint32(len(frag.text)) <= cols-outColumn {
				nextLine.Fragments = append(nextLine.Fragments, ChatFragment{
					Text: string(frag.text), Column: outColumn, Bold: frag.bold,
				})
				outColumn += uint32(len(frag.text))
				nextFrags = nextFrags[1:]
			} else {
				split := cols - outColumn
				nextLine.Fragments = append(nextLine.Fragments, ChatFragment{
					Text: string(frag.text[:split]), Column: outColumn, Bold: frag.bold,
				})
				nextFrags[0] = wrapFragment{text: frag.text[split:], bold: frag.bold}
				outColumn = cols
			}

			if outColumn == cols || textProcessing {
				destination = append(destination, nextLine)
				nextLine = ChatFormattedLine{First: false}
				if textProcessing {
					outColumn = hangingIndent
				} else {
					outColumn = 0
				}
			}
		}

		if inPos < len(textRunes) {
			remainingIn := len(textRunes) - inPos
			remainingOut := int(cols - outColumn)

			fragLen, spacePos := 1, 0
			for fragLen < remainingIn && fragLen < remainingOut {
				if unicode.IsSpace(textRunes[inPos+fragLen]) {
					spacePos = fragLen
				}
				fragLen++
			}
			if spacePos != 0 && fragLen < remainingIn {
				fragLen = spacePos + 1
			}

			frag := make([]rune, fragLen)
			copy(frag, textRunes[inPos:inPos+fragLen])
			nextFrags = append(nextFrags, wrapFragment{text: frag, bold: false})
			inPos += fragLen
			textProcessing = true
		}
	}

	if len(destination) == 0 || len(nextLine.Fragments) > 0 {
		destination = append(destination, nextLine)
	}

	return destination
}
