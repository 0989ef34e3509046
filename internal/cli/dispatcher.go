package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/canopy"
)

// Engine is the slice of the lock manager the dispatcher drives.
type Engine interface {
	Lock(name string, owner int64) bool
	Unlock(name string, owner int64) bool
	Upgrade(name string, owner int64) bool
}

// Run reads one command script from r and writes one boolean result line per
// query to w, in query order.
//
// The script starts with a header line "N M Q" (node count, branching
// factor, query count), followed by N node name lines (first name is the
// root) and Q query lines "OP NAME ID" with OP in {1,2,3} for lock, unlock
// and upgrade. Malformed input is a fatal error; it never reaches the
// manager.
func Run(r io.Reader, w io.Writer, opts ...canopy.Option) error {
	sc := bufio.NewScanner(r)

	n, m, q, err := readHeader(sc)
	if err != nil {
		return err
	}

	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err := readLine(sc)
		if err != nil {
			return fmt.Errorf("reading node name %d of %d: %w", i+1, n, err)
		}
		names = append(names, line)
	}

	mgr, err := canopy.New(names, m, opts...)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for i := 0; i < q; i++ {
		line, err := readLine(sc)
		if err != nil {
			return fmt.Errorf("reading query %d of %d: %w", i+1, q, err)
		}
		ok, err := dispatch(mgr, line)
		if err != nil {
			return fmt.Errorf("query %d: %w", i+1, err)
		}
		fmt.Fprintln(bw, strconv.FormatBool(ok))
	}
	return bw.Flush()
}

func readHeader(sc *bufio.Scanner) (n, m, q int, err error) {
	line, err := readLine(sc)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("reading header: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("header: expected 3 fields, got %d", len(fields))
	}
	nums := make([]int, 3)
	for i, f := range fields {
		nums[i], err = strconv.Atoi(f)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("header field %q: %w", f, err)
		}
	}
	if nums[0] < 1 || nums[2] < 0 {
		return 0, 0, 0, fmt.Errorf("header: invalid counts in %q", line)
	}
	return nums[0], nums[1], nums[2], nil
}

func dispatch(e Engine, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return false, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	owner, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return false, fmt.Errorf("owner id %q: %w", fields[2], err)
	}
	name := fields[1]
	switch fields[0] {
	case "1":
		return e.Lock(name, owner), nil
	case "2":
		return e.Unlock(name, owner), nil
	case "3":
		return e.Upgrade(name, owner), nil
	default:
		return false, fmt.Errorf("unknown operation code %q", fields[0])
	}
}

func readLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(sc.Text()), nil
}
