package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jsontar/jsontar/pkg/codec"
	"github.com/jsontar/jsontar/pkg/pack"
)

// selectCodec resolves the compression mode flags against the output
// filename. At most one mode flag may be set; auto-compress is the
// default and only applies when writing to a named file.
func selectCodec(c *cli.Context, outfile string) (codec.Codec, error) {
	var forced []codec.Codec
	for flag, cdc := range map[string]codec.Codec{
		"gzip":  codec.Gzip,
		"bzip2": codec.Bzip2,
		"xz":    codec.Xz,
		"zstd":  codec.Zstd,
	} {
		if c.Bool(flag) {
			forced = append(forced, cdc)
		}
	}
	modes := len(forced)
	if c.Bool("no-auto-compress") {
		modes++
	}
	if c.Bool("auto-compress") {
		modes++
	}
	if modes > 1 {
		return codec.None, fmt.Errorf(
			"at most one compression mode flag may be given",
		)
	}

	switch {
	case len(forced) == 1:
		return forced[0], nil
	case c.Bool("no-auto-compress") || outfile == "":
		return codec.None, nil
	default:
		return codec.Detect(outfile), nil
	}
}

// openInputs opens the positional input files, falling back to stdin
// when none are given.
func openInputs(c *cli.Context) ([]*os.File, func(), error) {
	if c.NArg() == 0 {
		return []*os.File{os.Stdin}, func() {}, nil
	}
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			if f != os.Stdin {
				f.Close()
			}
		}
	}
	for _, arg := range c.Args().Slice() {
		if arg == "-" {
			files = append(files, os.Stdin)
			continue
		}
		f, err := os.Open(arg)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
	}
	return files, closeAll, nil
}

func runCompile(c *cli.Context, opts pack.Options) error {
	outfile := c.String("output")
	cdc, err := selectCodec(c, outfile)
	if err != nil {
		return err
	}
	slog.Debug("compiling", "codec", string(cdc), "policy", string(opts.Policy))

	inputs, closeInputs, err := openInputs(c)
	if err != nil {
		return err
	}
	defer closeInputs()

	readers := make([]io.Reader, len(inputs))
	for i, f := range inputs {
		readers[i] = f
	}

	out, cleanup, err := openOutput(outfile)
	if err != nil {
		return err
	}

	compileErr := compileTo(io.MultiReader(readers...), out, cdc, opts)
	return cleanup(compileErr)
}

func compileTo(
	r io.Reader, w io.Writer, cdc codec.Codec, opts pack.Options,
) error {
	cw, err := cdc.NewWriter(w)
	if err != nil {
		return err
	}
	if err := pack.Compile(r, cw, opts); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// openOutput opens the output sink. The returned cleanup closes it
// and, when a named output file is left half-written by an error,
// removes the partial file.
func openOutput(path string) (io.Writer, func(error) error, error) {
	if path == "" {
		return os.Stdout, func(err error) error { return err }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func(err error) error {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
		}
		return err
	}
	return f, cleanup, nil
}

func runGenerate(c *cli.Context) error {
	inputs, closeInputs, err := openInputs(c)
	if err != nil {
		return err
	}
	defer closeInputs()

	out, cleanup, err := openOutput(c.String("output"))
	if err != nil {
		return err
	}

	var genErr error
	for _, f := range inputs {
		cdc := codec.Detect(f.Name())
		cr, err := cdc.NewReader(f)
		if err != nil {
			genErr = err
			break
		}
		slog.Debug("generating manifest", "input", f.Name(), "codec", string(cdc))
		err = pack.Generate(cr, out)
		if closeErr := cr.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			genErr = err
			break
		}
	}
	return cleanup(genErr)
}
