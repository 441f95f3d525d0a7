package format

// emitCommentsBeforeLine prints, each on its own line, the comments that
// start before line.
func (e *SourceEncoder) emitCommentsBeforeLine(line int) {
	for e.commentIndex < len(e.comments) {
		comment := e.comments[e.commentIndex]
		if comment.Span.Start.Line >= line {
			break
		}
		e.writeIndent()
		e.write(comment.Lexeme)
		e.newline()
		e.commentIndex++
	}
}

func (e *SourceEncoder) emitRemainingComments() {
	for e.commentIndex < len(e.comments) {
		e.writeIndent()
		e.write(e.comments[e.commentIndex].Lexeme)
		e.newline()
		e.commentIndex++
	}
}

// emitTrailingLineComment appends the next comment to the current line if
// it sits on line in the source and no other code follows on that line.
func (e *SourceEncoder) emitTrailingLineComment(line, nextLine int) {
	if e.commentIndex >= len(e.comments) || line == nextLine {
		return
	}
	comment := e.comments[e.commentIndex]
	if comment.Span.Start.Line == line {
		e.write(" " + comment.Lexeme)
		e.commentIndex++
	}
}
