package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrInterrupt is returned by a LineReader when the user presses Ctrl-C.
var ErrInterrupt = errors.New("interrupt")

// LineReader reads one line of user input after showing a prompt.
// It returns ErrInterrupt on Ctrl-C and io.EOF at end of input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewReader returns a readline-backed reader when in is a terminal and a
// plain line scanner otherwise.
func NewReader(in *os.File, out io.Writer, historyFile string) (LineReader, error) {
	if term.IsTerminal(int(in.Fd())) {
		return NewReadlineReader(historyFile)
	}
	return NewScannerReader(in, out), nil
}

type readlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader returns an editing reader with persistent history.
// An empty historyFile disables history.
func NewReadlineReader(historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing line editor: %w", err)
	}
	return &readlineReader{rl: rl}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}

// maxLineSize bounds a single piped input line.
const maxLineSize = 1 << 20

type scannerReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScannerReader reads lines from in, echoing prompts to out. Used for
// piped input and tests.
func NewScannerReader(in io.Reader, out io.Writer) LineReader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &scannerReader{sc: sc, out: out}
}

func (r *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		fmt.Fprintln(r.out)
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scannerReader) Close() error {
	return nil
}
