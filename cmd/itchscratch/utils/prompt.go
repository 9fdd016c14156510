package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrTooManyAttempts = errors.New("no valid answer given")

// Choose prints a numbered menu and reads lines from `in` until one of them
// names an option, either by its number or by its text. It gives up after
// `attempts` invalid answers or when `in` runs out.
func Choose(in io.Reader, out io.Writer, question string, options []string, attempts int) (int, error) {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, question)
	for i, opt := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}

	for n := 0; n < attempts; n++ {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" {
			if idx, ok := matchOption(answer, options); ok {
				return idx, nil
			}
			fmt.Fprintf(out, "'%s' is not one of the options\n", answer)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return -1, err
		}
	}
	return -1, ErrTooManyAttempts
}

func matchOption(answer string, options []string) (int, bool) {
	n, err := strconv.Atoi(answer)
	if err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return -1, false
	}
	for i, opt := range options {
		if strings.EqualFold(answer, opt) {
			return i, true
		}
	}
	return -1, false
}

// Confirm asks a yes/no question, anything that is not a yes is a no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
