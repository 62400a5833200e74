package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/java/env"
	"github.com/dhamidi/javafront/options"
)

// defaultOptionFiles are read from the working directory when no
// --options file is given. The first one found wins.
var defaultOptionFiles = []string{"javafront.toml", "options.yaml", "options.yml"}

type optionFlags struct {
	file          string
	level         string
	compliance    string
	source        string
	target        string
	enablePreview bool
	set           []string
}

func (f *optionFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.file, "options", "", "read options from a YAML or TOML file")
	fl.StringVar(&f.level, "level", "", "set compliance, source and target level (1.3 ... 1.8, 9 ... 21)")
	fl.StringVar(&f.compliance, "compliance", "", "compliance level")
	fl.StringVar(&f.source, "source", "", "source level")
	fl.StringVar(&f.target, "target", "", "target level")
	fl.BoolVar(&f.enablePreview, "enable-preview", false, "enable preview language features")
	fl.StringArrayVarP(&f.set, "option", "O", nil, "set an option or problem severity, e.g. -O unusedImport=error")
}

// resolve builds the options: file, then level flags, then -O pairs. The
// result is validated.
func (f *optionFlags) resolve() (options.Options, error) {
	opts := options.Default()
	path := f.file
	if path == "" {
		for _, name := range defaultOptionFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			} else if !errors.Is(err, fs.ErrNotExist) {
				return options.Options{}, err
			}
		}
	}
	if path != "" {
		loaded, err := options.Load(path)
		if err != nil {
			return options.Options{}, err
		}
		opts = loaded
	}
	for _, kv := range []struct{ key, value string }{
		{"level", f.level},
		{"compliance", f.compliance},
		{"source", f.source},
		{"target", f.target},
	} {
		if kv.value == "" {
			continue
		}
		if err := opts.Set(kv.key, kv.value); err != nil {
			return options.Options{}, err
		}
	}
	if f.enablePreview {
		opts.EnablePreview = true
	}
	if err := opts.SetPairs(f.set); err != nil {
		return options.Options{}, err
	}
	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return options.Options{}, err
	}
	return opts, nil
}

type envFlags struct {
	classPath []string
	cacheDir  string
}

func (f *envFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.classPath, "classpath", nil, "class path entries (directories and jars)")
	fl.StringVar(&f.cacheDir, "cache", defaultCacheDir(), "directory for class path indexes; empty disables caching")
}

// open returns the environment for the flags and a function releasing it.
// Without class path entries it is the bootstrap library.
func (f *envFlags) open() (env.Environment, func(), error) {
	boot := env.Bootstrap()
	if len(f.classPath) == 0 {
		return boot, func() {}, nil
	}
	cp, err := f.classPathEnv(boot)
	if err != nil {
		return nil, nil, err
	}
	return env.Chain{cp, boot}, func() { cp.Close() }, nil
}

func (f *envFlags) classPathEnv(parent env.Environment) (*env.ClassPath, error) {
	if f.cacheDir == "" {
		return env.OpenClassPath(f.classPath, env.WithParent(parent))
	}
	return env.Cache{Dir: f.cacheDir}.Open(f.classPath, env.WithParent(parent))
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "javafront")
}
