package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saylorsolutions/redshirt/cmd/internal"
	"github.com/saylorsolutions/redshirt/pkg/redshirt"
	"github.com/saylorsolutions/redshirt/pkg/redshirt/redshirt1"
	"github.com/saylorsolutions/redshirt/pkg/redshirt/redshirt2"
	flag "github.com/spf13/pflag"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		versionFlag bool
		decodeFlag  bool
		v2Flag      bool
		forceFlag   bool
		outputFlag  string
	)
	flags := flag.NewFlagSet("redshirt", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVarP(&versionFlag, "version", "v", false, "Prints the version of this tool.")
	flags.BoolVarP(&decodeFlag, "decode", "d", false, "Decode INPUT instead of encoding it.")
	flags.BoolVarP(&v2Flag, "redshirt2", "2", false, "Use the Redshirt 2 format, which adds a SHA-1 digest over the stored payload. Decoding detects the format from the file header.")
	flags.BoolVarP(&forceFlag, "force", "f", false, "Overwrite OUTPUT if it already exists.")
	flags.StringVarP(&outputFlag, "output", "o", "", "Write to the given file instead of the derived name.")
	flags.Usage = func() {
		fmt.Printf(`
redshirt encodes files with the Redshirt 1 or Redshirt 2 screening format, and decodes them back to plain bytes.
Note that neither format is encryption! The screen is a fixed, reversible bit flip that only guards against casual inspection. Redshirt 2 adds a digest so corrupted or truncated files are rejected on decode.

USAGE:  redshirt [FLAGS] INPUT

By default the output file name is derived from INPUT: encoding appends ".rs1" or ".rs2", decoding strips that suffix. Use -o when the derived name isn't suitable.

FLAGS:
%s`, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}
	if versionFlag {
		internal.Echo("redshirt version %s", version)
		return
	}
	if flags.NArg() != 1 {
		internal.Fatal("Expected exactly one INPUT argument, got %d", flags.NArg())
	}

	input := flags.Arg(0)
	output := outputFlag
	if len(output) == 0 {
		var err error
		output, err = deriveOutputName(input, decodeFlag, v2Flag)
		if err != nil {
			internal.Fatal("%v", err)
		}
	}
	if err := run(input, output, decodeFlag, v2Flag, forceFlag); err != nil {
		switch {
		case errors.Is(err, redshirt.ErrBadHeader):
			internal.Fatal("'%s' doesn't start with a Redshirt marker: %v", input, err)
		case errors.Is(err, redshirt.ErrBadChecksum):
			internal.Fatal("'%s' is corrupted or was never finalized: %v", input, err)
		default:
			internal.Fatal("%v", err)
		}
	}
}

func deriveOutputName(input string, decode, v2 bool) (string, error) {
	if !decode {
		if v2 {
			return input + ".rs2", nil
		}
		return input + ".rs1", nil
	}
	for _, suffix := range []string{".rs1", ".rs2"} {
		if strings.HasSuffix(input, suffix) {
			return strings.TrimSuffix(input, suffix), nil
		}
	}
	return "", fmt.Errorf("cannot derive an output name from '%s', use -o", input)
}

func run(input, output string, decode, v2, force bool) error {
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	outFlags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		outFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	out, err := os.OpenFile(output, outFlags, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if decode {
		return decodeStream(in, out)
	}
	return encodeStream(in, out, v2)
}

func encodeStream(in io.Reader, out *os.File, v2 bool) error {
	if v2 {
		w, err := redshirt2.NewWriter(out)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, in); err != nil {
			return err
		}
		return w.Close()
	}
	w, err := redshirt1.NewWriter(out)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func decodeStream(in *os.File, out io.Writer) error {
	// Try Redshirt 2 first since its header is a superset in spirit; fall
	// back to Redshirt 1 on a marker mismatch.
	r2, err := redshirt2.NewReader(in)
	if err == nil {
		_, err = io.Copy(out, r2)
		return err
	}
	// Files shorter than the Redshirt 2 header surface as truncated reads.
	if !errors.Is(err, redshirt.ErrBadHeader) &&
		!errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r1, err := redshirt1.NewReader(in)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r1)
	return err
}
