// Command cbordump decodes a CBOR item from hexadecimal input and prints
// an indented structural trace of its major types and arguments, without
// requiring a statically-known value shape — it walks the item the same
// way Decoder.Skip does, just printing instead of discarding.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/head"
)

func main() {
	var (
		filename = flag.String("file", "", "file containing hex-encoded CBOR (reads stdin if empty)")
	)
	flag.Parse()

	data, err := readInput(*filename)
	if err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}

	r := bytestream.NewBufferReader(data)
	if err := dump(os.Stdout, r, 0); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func readInput(filename string) ([]byte, error) {
	var (
		src io.Reader
		f   *os.File
	)
	if len(filename) == 0 {
		src = os.Stdin
	} else {
		var err error
		f, err = os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}

	raw, err := io.ReadAll(bufio.NewReader(src))
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(strings.ReplaceAll(string(raw), " ", ""))
	return hex.DecodeString(text)
}

func dump(w io.Writer, r bytestream.Reader, depth int) error {
	h, err := head.DecodeHead(r)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)

	switch h.Major {
	case head.MajorUint:
		fmt.Fprintf(w, "%suint(%d)\n", indent, h.Arg)
	case head.MajorNeg:
		fmt.Fprintf(w, "%sint(-%d-1)\n", indent, h.Arg)
	case head.MajorBytes, head.MajorText:
		label := "bytes"
		if h.Major == head.MajorText {
			label = "text"
		}
		if h.Indefinite {
			fmt.Fprintf(w, "%s%s(indefinite)\n", indent, label)
			for {
				peek, err := r.PeekByte()
				if err != nil {
					return err
				}
				if peek == head.Break {
					_, _ = r.ReadByte()
					return nil
				}
				if err := dump(w, r, depth+1); err != nil {
					return err
				}
			}
		}
		span, err := r.ReadSpan(int(h.Arg))
		if err != nil {
			return err
		}
		if h.Major == head.MajorText {
			fmt.Fprintf(w, "%s%s(%q)\n", indent, label, string(span))
		} else {
			fmt.Fprintf(w, "%s%s(% x)\n", indent, label, span)
		}

	case head.MajorArray:
		if h.Indefinite {
			fmt.Fprintf(w, "%sarray(indefinite)\n", indent)
			for {
				peek, err := r.PeekByte()
				if err != nil {
					return err
				}
				if peek == head.Break {
					_, _ = r.ReadByte()
					return nil
				}
				if err := dump(w, r, depth+1); err != nil {
					return err
				}
			}
		}
		fmt.Fprintf(w, "%sarray(%d)\n", indent, h.Arg)
		for i := uint64(0); i < h.Arg; i++ {
			if err := dump(w, r, depth+1); err != nil {
				return err
			}
		}

	case head.MajorMap:
		if h.Indefinite {
			fmt.Fprintf(w, "%smap(indefinite)\n", indent)
			for {
				peek, err := r.PeekByte()
				if err != nil {
					return err
				}
				if peek == head.Break {
					_, _ = r.ReadByte()
					return nil
				}
				if err := dump(w, r, depth+1); err != nil { // key
					return err
				}
				if err := dump(w, r, depth+1); err != nil { // value
					return err
				}
			}
		}
		fmt.Fprintf(w, "%smap(%d)\n", indent, h.Arg)
		for i := uint64(0); i < h.Arg; i++ {
			if err := dump(w, r, depth+1); err != nil { // key
				return err
			}
			if err := dump(w, r, depth+1); err != nil { // value
				return err
			}
		}

	case head.MajorTag:
		fmt.Fprintf(w, "%stag(%d)\n", indent, h.Arg)
		return dump(w, r, depth+1)

	case head.MajorFloat:
		switch h.AI {
		case head.AIFalse:
			fmt.Fprintf(w, "%sbool(false)\n", indent)
		case head.AITrue:
			fmt.Fprintf(w, "%sbool(true)\n", indent)
		case head.AINull:
			fmt.Fprintf(w, "%snull\n", indent)
		case head.AIUndefined:
			fmt.Fprintf(w, "%sundefined\n", indent)
		case head.AIFloat16:
			fmt.Fprintf(w, "%sfloat16(0x%04x)\n", indent, h.Arg)
		case head.AIFloat32:
			fmt.Fprintf(w, "%sfloat32(0x%08x)\n", indent, h.Arg)
		case head.AIFloat64:
			fmt.Fprintf(w, "%sfloat64(0x%016x)\n", indent, h.Arg)
		default:
			fmt.Fprintf(w, "%ssimple(%d)\n", indent, h.AI)
		}

	default:
		fmt.Fprintf(w, "%sunknown major type %d\n", indent, h.Major)
	}
	return nil
}
