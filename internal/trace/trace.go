package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrSyntax indicates a malformed script line.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrUnknownName indicates a free of a name that was never allocated.
	ErrUnknownName = errors.New("trace: free of unknown name")

	// ErrDoubleFree indicates a free of a name that was already freed.
	ErrDoubleFree = errors.New("trace: double free")

	// ErrNameInUse indicates an alloc reusing a name that is still live.
	ErrNameInUse = errors.New("trace: name already allocated")
)

// Kind is the operation type of a script line.
type Kind uint8

const (
	KindAlloc Kind = iota + 1
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindFree:
		return "free"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one script operation.
type Op struct {
	Kind  Kind
	Name  string
	Size  uint64 // alloc only
	Align uint64 // alloc only
	Line  int    // 1-based source line, 0 if generated
}

func (op Op) String() string {
	if op.Kind == KindAlloc {
		return fmt.Sprintf("alloc %s %d %d", op.Name, op.Size, op.Align)
	}
	return fmt.Sprintf("%s %s", op.Kind, op.Name)
}

// Parse reads a script.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseFields(fields []string) (Op, error) {
	switch fields[0] {
	case "alloc":
		if len(fields) < 3 || len(fields) > 4 {
			return Op{}, fmt.Errorf("%w: want \"alloc <name> <size> [align]\"", ErrSyntax)
		}
		size, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return Op{}, fmt.Errorf("%w: size %q: %v", ErrSyntax, fields[2], err)
		}
		align := uint64(1)
		if len(fields) == 4 {
			align, err = strconv.ParseUint(fields[3], 0, 64)
			if err != nil {
				return Op{}, fmt.Errorf("%w: align %q: %v", ErrSyntax, fields[3], err)
			}
		}
		return Op{Kind: KindAlloc, Name: fields[1], Size: size, Align: align}, nil

	case "free":
		if len(fields) != 2 {
			return Op{}, fmt.Errorf("%w: want \"free <name>\"", ErrSyntax)
		}
		return Op{Kind: KindFree, Name: fields[1]}, nil

	default:
		return Op{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}
}

// Write renders ops as a script that Parse reads back.
func Write(w io.Writer, ops []Op) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		if _, err := fmt.Fprintln(bw, op); err != nil {
			return err
		}
	}
	return bw.Flush()
}
