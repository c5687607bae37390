// Package writer implements the assembly file writing of a disassembled program.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/machine"
)

const dataBytesPerLine = 16

type lineWriterFunc func(line string, byteCount int) error

// Writer implements the assembly file writing.
type Writer struct {
	app     *disasm.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool // output opcode bytes as hex values in comments
	OffsetComments bool // output addresses in comments
	ZeroBytes      bool // output trailing zero bytes
}

// New creates a new writer.
func New(app *disasm.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes the header and all lines of the program.
func (w Writer) Write() error {
	if err := w.writeCommentHeader(); err != nil {
		return err
	}

	lines := w.app.Lines[:w.endIndex()]
	var previousLineWasCode bool

	for i, line := range lines {
		if err := w.writeLabel(i, line); err != nil {
			return err
		}

		// print an empty line in case of data after code and vice versa
		if i > 0 && line.Label == "" && line.IsCode() != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = line.IsCode()

		if line.IsCode() {
			if err := w.writeCodeLine(line); err != nil {
				return fmt.Errorf("writing code line: %w", err)
			}
			continue
		}

		if err := w.writeDataLine(line); err != nil {
			return err
		}
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString(".byte ")
		for j := range toWrite {
			if _, err := fmt.Fprintf(buf, "$%02x, ", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		line := strings.TrimRight(buf.String(), ", ")

		if lineWriter != nil {
			if err := lineWriter(line, toWrite); err != nil {
				return fmt.Errorf("writing data line using custom writer: %w", err)
			}
		} else {
			if _, err := fmt.Fprintf(w.writer, "  %s\n", line); err != nil {
				return fmt.Errorf("writing data line: %w", err)
			}
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

// writeCommentHeader writes the CRC32 checksum and program address as comments to the output.
func (w Writer) writeCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; CHIP-8 ROM disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n", w.app.Checksum); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Size: %d bytes\n\n", w.app.Size); err != nil {
		return fmt.Errorf("writing size: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, ".org $%03X\n\n", machine.ProgramStart); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}
	return nil
}

func (w Writer) writeLabel(index int, line disasm.Line) error {
	if line.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "%s:\n", line.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(line disasm.Line) error {
	comment := w.lineComment(line.Address, line.Data, line.Comment)

	if comment == "" {
		if _, err := fmt.Fprintf(w.writer, "  %s\n", line.Code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	} else {
		if _, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", line.Code, comment); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// writeDataLine writes a run of data bytes, split into multiple lines of
// .byte directives.
func (w Writer) writeDataLine(line disasm.Line) error {
	address := line.Address
	comment := line.Comment

	lineWriter := func(text string, byteCount int) error {
		var err error

		var offsetComment string
		if w.options.OffsetComments {
			offsetComment = fmt.Sprintf("$%04X", address)
		}
		lineComment := joinComments(offsetComment, comment)

		if lineComment == "" {
			_, err = fmt.Fprintf(w.writer, "  %s\n", text)
		} else {
			_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", text, lineComment)
		}
		if err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		address += uint16(byteCount)
		comment = ""
		return nil
	}

	if err := w.BundleDataWrites(line.Data, lineWriter); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}
	return nil
}

func (w Writer) lineComment(address uint16, data []byte, comment string) string {
	var parts []string
	if w.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", address))
	}
	if w.options.HexComments {
		hex := make([]string, 0, len(data))
		for _, b := range data {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		parts = append(parts, strings.Join(hex, " "))
	}
	return joinComments(strings.Join(parts, " "), comment)
}

func joinComments(prefix, comment string) string {
	switch {
	case prefix == "":
		return comment
	case comment == "":
		return prefix
	default:
		return prefix + "  " + comment
	}
}

// endIndex returns the number of lines to output, trailing data lines that
// contain only zero bytes are skipped unless requested.
func (w Writer) endIndex() int {
	lines := w.app.Lines
	if w.options.ZeroBytes {
		return len(lines)
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if line.IsCode() || line.Label != "" {
			return i + 1
		}
		for _, b := range line.Data {
			if b != 0 {
				return i + 1
			}
		}
	}
	return 0
}
