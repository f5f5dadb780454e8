// Command pdfmerge merges PDF files from the command line.
//
//	pdfmerge -o out.pdf a.pdf b.pdf c.pdf
//	pdfmerge -o out.pdf "a.pdf;b.pdf" --save-project book.xml
//	pdfmerge --project book.xml
//
// Inputs are merged in the order given. Inputs that cannot be read are
// reported and skipped; the command exits with status 1 when the merge
// fails and 2 on a usage error.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go-pdfmerge/internal/inputlist"
	"go-pdfmerge/internal/merge"
	"go-pdfmerge/internal/pdf"
	"go-pdfmerge/internal/project"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	flag "github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	output        string
	projectFile   string
	saveProject   string
	ownerPassword string
	bookmarks     bool
	logLevel      string
	inputs        []string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("pdfmerge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.output, "output", "o", "", "output PDF file")
	fs.StringVar(&o.projectFile, "project", "", "load inputs and output from a project file")
	fs.StringVar(&o.saveProject, "save-project", "", "save inputs and output to a project file (.xml, .yaml or .json)")
	fs.StringVar(&o.ownerPassword, "owner-password", "", "owner password for protected inputs")
	fs.BoolVar(&o.bookmarks, "bookmarks", false, "add an outline entry for each input")
	fs.StringVar(&o.logLevel, "log-level", "off", "log level (trace, debug, info, warn, error, off)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pdfmerge [-o out.pdf] [--project file] [--save-project file] [files...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.inputs = fs.Args()
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	o, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pdfmerge",
		Output: stderr,
		Level:  hclog.LevelFromString(o.logLevel),
	})

	list := inputlist.New()
	if o.projectFile != "" {
		st, err := project.Load(o.projectFile)
		if err != nil {
			red.Fprintf(stderr, "load project: %v\n", err)
			return exitFail
		}
		if saved := st.Apply(list); o.output == "" {
			o.output = saved
		}
	}

	for _, arg := range o.inputs {
		for _, path := range inputlist.SplitPaths(arg) {
			if err := list.Validate(path); err != nil {
				yellow.Fprintf(stderr, "ignoring %s: %v\n", path, err)
				continue
			}
			list.Add(path)
		}
	}

	if o.saveProject != "" {
		if err := project.Save(o.saveProject, project.FromList(list, o.output)); err != nil {
			red.Fprintf(stderr, "save project: %v\n", err)
			return exitFail
		}
		fmt.Fprintf(stdout, "project saved to %s\n", o.saveProject)
	}

	access := pdf.NewAccess(pdf.Options{
		OwnerPassword: o.ownerPassword,
		Bookmarks:     o.bookmarks,
	})
	engine := merge.NewEngine(access, list,
		merge.WithLogger(logger),
		merge.WithFailureHandler(func(f merge.Failure) {
			fmt.Fprint(stdout, "\r")
			red.Fprintf(stderr, "skipped %s (%s): %v\n", f.Path, f.Reason, f.Err)
		}),
	)

	if !engine.CanMerge(o.output) {
		// saving a project that is not ready to merge yet is allowed
		if o.saveProject != "" {
			return exitOK
		}
		red.Fprintln(stderr, "need an output file and at least two input files")
		return exitUsage
	}

	r, err := engine.MergeAsync(o.output, merge.ProgressFunc(func(p int) {
		fmt.Fprintf(stdout, "\rmerging %d files... %3d%%", list.Len(), p)
	}))
	if err != nil {
		red.Fprintf(stderr, "merge: %v\n", err)
		if errors.Is(err, merge.ErrTargetIsInput) || errors.Is(err, merge.ErrCannotMerge) {
			return exitUsage
		}
		return exitFail
	}

	res := r.Wait()
	fmt.Fprintln(stdout)
	if res.State == merge.Failed {
		red.Fprintf(stderr, "merge failed: %v\n", res.Err)
		return exitFail
	}
	if n := len(res.Failures); n > 0 {
		yellow.Fprintf(stderr, "%d of %d inputs skipped\n", n, r.Total())
	}
	green.Fprintf(stdout, "wrote %s (%d pages)\n", res.Output, res.Pages)
	return exitOK
}
