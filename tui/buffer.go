package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Buffer is a single line of editable text with a cursor. The cursor counts
// characters, not bytes, and always lies in [0, Len()].
type Buffer struct {
	content string
	cursor  int
}

// Value returns the text.
func (b *Buffer) Value() string { return b.content }

// Cursor returns the cursor position in characters.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the number of characters.
func (b *Buffer) Len() int { return utf8.RuneCountInString(b.content) }

// byteIndex converts the cursor to a byte offset into content.
func (b *Buffer) byteIndex() int {
	n := 0
	for i := range b.content {
		if n == b.cursor {
			return i
		}
		n++
	}
	return len(b.content)
}

func (b *Buffer) clamp() {
	if b.cursor < 0 {
		b.cursor = 0
	}
	if l := b.Len(); b.cursor > l {
		b.cursor = l
	}
}

// Insert places r at the cursor and advances past it.
func (b *Buffer) Insert(r rune) {
	b.clamp()
	i := b.byteIndex()
	b.content = b.content[:i] + string(r) + b.content[i:]
	b.cursor++
	b.clamp()
}

// InsertString inserts s one character at a time. Control characters such
// as newlines from a clipboard are dropped.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.Insert(r)
	}
}

// DeleteBeforeCursor removes the character left of the cursor.
func (b *Buffer) DeleteBeforeCursor() {
	b.clamp()
	if b.cursor == 0 {
		return
	}
	runes := []rune(b.content)
	b.content = string(runes[:b.cursor-1]) + string(runes[b.cursor:])
	b.cursor--
}

func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
	b.clamp()
}

func (b *Buffer) MoveRight() {
	b.cursor++
	b.clamp()
}

// ResetCursor moves the cursor to the start of the line.
func (b *Buffer) ResetCursor() { b.cursor = 0 }

func (b *Buffer) MoveToStart() { b.cursor = 0 }

func (b *Buffer) MoveToEnd() { b.cursor = b.Len() }

// SetValue replaces the text and puts the cursor at the end.
func (b *Buffer) SetValue(s string) {
	b.content = s
	b.MoveToEnd()
}

func (b *Buffer) Clear() {
	b.content = ""
	b.cursor = 0
}

// CursorColumn is the terminal column of the cursor. Wide characters take
// two cells.
func (b *Buffer) CursorColumn() int {
	b.clamp()
	return runewidth.StringWidth(b.content[:b.byteIndex()])
}

// Masked returns the text with every character replaced by mask.
func (b *Buffer) Masked(mask rune) string {
	return strings.Repeat(string(mask), b.Len())
}
