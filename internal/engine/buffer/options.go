package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithDelimiter sets the buffer's line delimiter.
func WithDelimiter(d Delimiter) Option {
	return func(b *Buffer) {
		b.delimiter = d
	}
}

// WithLF configures the buffer to use Unix line endings (\n).
func WithLF() Option {
	return WithDelimiter(DelimiterLF)
}

// WithCRLF configures the buffer to use Windows line endings (\r\n).
func WithCRLF() Option {
	return WithDelimiter(DelimiterCRLF)
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(b *Buffer) {
		if o != nil {
			b.observers = append(b.observers, o)
		}
	}
}

// DetectDelimiter returns the most common line delimiter in text.
// Returns DelimiterLF if the text has no line breaks. Ties go to CRLF.
func DetectDelimiter(text string) Delimiter {
	var lfCount, crlfCount int

	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if i > 0 && text[i-1] == '\r' {
			crlfCount++
		} else {
			lfCount++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount {
		return DelimiterCRLF
	}
	return DelimiterLF
}

// WithDetectedDelimiter sets the buffer's delimiter based on content.
func WithDetectedDelimiter(text string) Option {
	return WithDelimiter(DetectDelimiter(text))
}
