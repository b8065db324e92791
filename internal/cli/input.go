package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine reads one line of input, accepting a final line without newline.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret prints prompt and reads a value without echo when stdin is a
// terminal, and a plain line otherwise.
func (a *App) readSecret(prompt string) (string, error) {
	fmt.Fprint(a.Stdout, prompt)

	if f, ok := a.Stdin.(*os.File); ok && isTerminal(int(f.Fd())) {
		secret, err := readPassword(int(f.Fd()))
		fmt.Fprintln(a.Stdout)
		if err != nil {
			return "", fmt.Errorf("failed to read from terminal: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	return a.readLine()
}

// confirm asks a yes/no question; only "y" and "yes" agree.
func (a *App) confirm(prompt string) bool {
	fmt.Fprint(a.Stdout, prompt)
	answer, err := a.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// newFlagSet creates a flag set reporting errors on stderr.
func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

// parse parses args, accepting a leading positional id before the flags
// ("get 4 -yes") as well as after them ("get -yes 4").
func parse(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", exitCode(ExitOK)
		}
		// flag has already reported the problem
		return "", exitCode(ExitUsage)
	}
	if id == "" {
		id = fs.Arg(0)
	}
	return id, nil
}

// textFlags registers string flags and copies the ones given on the
// command line into a form.
type textFlags struct {
	fs     *flag.FlagSet
	values map[string]*string
}

func newTextFlags(fs *flag.FlagSet, names map[string]string) textFlags {
	tf := textFlags{fs: fs, values: make(map[string]*string, len(names))}
	for name, usage := range names {
		tf.values[name] = fs.String(name, "", usage)
	}
	return tf
}

// apply writes every flag that was set into the matching dst field.
func (tf textFlags) apply(dst map[string]*string) {
	tf.fs.Visit(func(f *flag.Flag) {
		if target, ok := dst[f.Name]; ok {
			*target = *tf.values[f.Name]
		}
	})
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
