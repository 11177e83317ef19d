// main.go - asm15 command-line assembler

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/intuitionamiga/asm15/assembler"
	"github.com/intuitionamiga/asm15/objfile"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Options holds the command-line settings shared by every input file.
type Options struct {
	OutDir string
	NoAM   bool
	List   bool
	Dump   bool
	Color  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "asm15 [flags] FILE...",
		Short: "Two-pass assembler for the 15-bit word machine",
		Long: `asm15 assembles each FILE.as (the .as suffix may be omitted).

For every file it writes the macro-expanded source FILE.am and, when the
file assembles without errors, the object FILE.ob plus the FILE.ent and
FILE.ext linkage listings when they are not empty. Every error in a file
is reported before moving on to the next file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog only reads its flags once the Go flag set is parsed.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.OutDir, "out-dir", "o", "", "write output files to `DIR` instead of next to the source")
	f.BoolVar(&opts.NoAM, "no-am", false, "do not write the macro-expanded .am file")
	f.BoolVarP(&opts.List, "list", "l", false, "print a listing of each assembled image")
	f.BoolVar(&opts.Dump, "dump", false, "pretty-print the symbol table and image to stderr")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colour diagnostics: auto, always or never")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(newDisCmd(stdout))
	return cmd
}

// ---------------------------------------------------------------------
// Assembly driver
// ---------------------------------------------------------------------

func run(opts *Options, args []string, stdout, stderr io.Writer) error {
	color, err := useColor(opts.Color, stderr)
	if err != nil {
		return err
	}
	diag := &diagPrinter{w: stderr, color: color}

	failed := 0
	for _, arg := range args {
		if err := assembleFile(opts, arg, stdout, stderr, diag); err != nil {
			failed++
			var ae *assembler.AssemblyError
			if errors.As(err, &ae) {
				diag.summary(ae.File, ae.Count())
			} else {
				fmt.Fprintf(stderr, "asm15: %v\n", err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

func assembleFile(opts *Options, arg string, stdout, stderr io.Writer, diag *diagPrinter) error {
	base := objfile.BaseName(arg)
	srcPath := base + objfile.EXT_SOURCE
	outBase := objfile.OutputBase(base, opts.OutDir)

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	glog.Infof("assembling %s", srcPath)

	asm := assembler.NewAssembler(srcPath)
	asm.SetReporter(diag)
	img, asmErr := asm.Assemble(string(src))

	if exp := asm.Expansion(); exp.HasErrors() {
		if err := objfile.RemoveExpanded(outBase); err != nil {
			return err
		}
	} else if !opts.NoAM {
		if _, err := objfile.SaveExpanded(outBase, exp.Texts()); err != nil {
			return err
		}
	}
	if opts.Dump {
		dump(stderr, diag.color, asm, img)
	}
	if asmErr != nil {
		if err := objfile.RemoveOutputs(outBase); err != nil {
			glog.Warningf("%s: %v", srcPath, err)
		}
		return asmErr
	}

	written, err := objfile.SaveImage(outBase, img)
	if err != nil {
		return err
	}
	glog.Infof("%s: %d code words, %d data words -> %v", srcPath, len(img.Code), len(img.Data), written)

	if opts.List {
		fmt.Fprintf(stdout, "; %s\n", srcPath)
		for _, l := range img.Listing(assembler.NamesFor(asm.Symbols(), img)) {
			fmt.Fprintln(stdout, l)
		}
	}
	return nil
}

func dump(w io.Writer, color bool, asm *assembler.Assembler, img *assembler.Image) {
	p := pp.New()
	p.SetOutput(w)
	p.SetColoringEnabled(color)
	p.Println(asm.Symbols().Symbols())
	if img != nil {
		p.Println(img)
	}
}

// ---------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// useColor resolves the --color setting for w.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", mode)
}

// diagPrinter writes diagnostics to stderr as they are reported.
type diagPrinter struct {
	w     io.Writer
	color bool
}

func (d *diagPrinter) Report(file string, line int, msg string) {
	level, colour := "error", ansiRed
	if rest, ok := strings.CutPrefix(msg, "warning: "); ok {
		level, colour, msg = "warning", ansiYellow, rest
	}
	if d.color {
		level = colour + level + ansiReset
	}
	if line > 0 {
		fmt.Fprintf(d.w, "%s:%d: %s: %s\n", file, line, level, msg)
	} else {
		fmt.Fprintf(d.w, "%s: %s: %s\n", file, level, msg)
	}
}

func (d *diagPrinter) summary(file string, count int) {
	msg := fmt.Sprintf("%s: %d error(s), no object written", file, count)
	if d.color {
		msg = ansiBold + msg + ansiReset
	}
	fmt.Fprintln(d.w, msg)
}

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm15: %v\n", err)
		os.Exit(1)
	}
}
