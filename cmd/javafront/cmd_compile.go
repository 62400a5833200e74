package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/compiler"
	"github.com/dhamidi/javafront/diag"
)

func newCompileCmd() *cobra.Command {
	var opts optionFlags
	var envs envFlags
	var colorMode string
	var jobs int

	cmd := &cobra.Command{
		Use:   "compile <file|dir|glob>...",
		Short: "Check Java sources and print the problem log",
		Long: `Check Java sources as one batch and print the problem log.

Arguments may be files, directories (searched for **/*.java) or glob
patterns such as 'src/**/*.java'. The command prints "compiled" when no
problem is reported and exits with status 1 when any problem is an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.resolve()
			if err != nil {
				return err
			}
			paths, err := expandSources(args)
			if err != nil {
				return err
			}
			files, err := readSources(paths)
			if err != nil {
				return err
			}
			environment, release, err := envs.open()
			if err != nil {
				return err
			}
			defer release()

			res, err := compiler.Compile(cmd.Context(), compiler.Batch{
				Files:   files,
				Options: o,
				Env:     environment,
				Jobs:    jobs,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printLog(out, res, useColor(colorMode, out)); err != nil {
				return err
			}
			if res.Failed {
				return errFailed
			}
			return nil
		},
	}
	opts.bind(cmd)
	envs.bind(cmd)
	cmd.Flags().StringVar(&colorMode, "color", "auto", "colour severity labels: auto, always or never")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files parsed concurrently (0 means one per CPU)")
	return cmd
}

// expandSources resolves files, directories and doublestar patterns into a
// sorted list of distinct paths.
func expandSources(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil {
			if !info.IsDir() {
				add(arg)
				continue
			}
			matches, err := doublestar.FilepathGlob(filepath.Join(arg, "**", "*.java"))
			if err != nil {
				return nil, fmt.Errorf("searching %s: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no such file", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func readSources(paths []string) ([]compiler.SourceFile, error) {
	files := make([]compiler.SourceFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read java file: %w", err)
		}
		files = append(files, compiler.SourceFile{Path: filepath.ToSlash(p), Content: data})
	}
	return files, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printLog writes "compiled" or the problem log. Carets are sized by
// display width so they line up under wide characters.
func printLog(w io.Writer, res *compiler.Result, colored bool) error {
	if len(res.Diagnostics) == 0 {
		_, err := fmt.Fprintln(w, "compiled")
		return err
	}
	r := diag.Renderer{Width: runewidth.RuneWidth}
	if colored {
		r.Label = severityLabel
	}
	return r.Render(w, res.Files, res.Diagnostics)
}

var severityColors = map[diag.Severity]*color.Color{
	diag.Error:   color.New(color.FgRed, color.Bold),
	diag.Warning: color.New(color.FgYellow, color.Bold),
	diag.Info:    color.New(color.FgCyan),
}

func severityLabel(s diag.Severity) string {
	c, ok := severityColors[s]
	if !ok {
		return s.String()
	}
	c.EnableColor()
	return c.Sprint(s.String())
}
