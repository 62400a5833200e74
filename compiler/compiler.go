// Package compiler runs the front end over a batch of source files: every
// file is scanned and parsed, then the batch is bound and checked against
// one environment and its diagnostics are ordered.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/check"
	"github.com/dhamidi/javafront/java/env"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/options"
)

var log = commonlog.GetLogger("javafront.compiler")

// ErrNoFiles is returned for a batch without sources.
var ErrNoFiles = errors.New("no source files")

// SourceFile is a named virtual file.
type SourceFile struct {
	Path    string
	Content []byte
}

// Batch is one compilation request.
type Batch struct {
	Files   []SourceFile
	Options options.Options
	// Env resolves names the batch does not declare. Nil means the
	// bootstrap library.
	Env env.Environment
	// Jobs bounds the number of files parsed at once; zero means
	// GOMAXPROCS.
	Jobs int
}

// Result is the outcome of a batch.
type Result struct {
	Units       []*check.Unit
	Files       []*diag.File
	Diagnostics []diag.Diagnostic
	// Failed is set when any diagnostic is an error after severity
	// overrides.
	Failed bool
	// Checker holds the declarations of the batch; it can serve as the
	// environment of a later batch.
	Checker *check.Checker
}

// Log renders the diagnostics in the batch compiler format, or "compiled"
// when there are none.
func (r *Result) Log() string {
	if len(r.Diagnostics) == 0 {
		return "compiled"
	}
	return diag.Renderer{}.String(r.Files, r.Diagnostics)
}

// Compile validates the options, parses the files concurrently and checks
// them in file order. An invalid configuration is returned as a
// *options.ConfigurationError before anything is parsed. Problems in the
// sources are diagnostics, never errors; the error is otherwise only set
// when ctx is done.
func Compile(ctx context.Context, b Batch) (*Result, error) {
	opts := b.Options.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(b.Files) == 0 {
		return nil, ErrNoFiles
	}
	environment := b.Env
	if environment == nil {
		environment = env.Bootstrap()
	}

	bag := diag.NewBag(opts)
	for _, f := range b.Files {
		bag.AddFile(diag.NewFile(f.Path, f.Content))
	}

	units := make([]*check.Unit, len(b.Files))
	jobs := b.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(b.Files)))
	for i, f := range b.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(f.Content),
				parser.WithFile(f.Path),
				parser.WithComments(),
				parser.WithOptions(opts),
				parser.WithReporter(bag),
			)
			root := p.Finish()
			units[i] = check.NewUnit(f.Path, f.Content, root, p.Comments())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	c := check.New(environment, opts, bag)
	if err := c.Check(ctx, units); err != nil {
		return nil, fmt.Errorf("checking: %w", err)
	}

	res := &Result{
		Units:       units,
		Files:       bag.Files(),
		Diagnostics: bag.Items(),
		Failed:      bag.HasErrors(),
		Checker:     c,
	}
	errs, warnings, infos := bag.Counts()
	log.Debugf("compiled %d files: %d errors, %d warnings, %d infos", len(units), errs, warnings, infos)
	return res, nil
}
