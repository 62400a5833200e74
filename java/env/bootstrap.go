package env

import (
	"context"
	"embed"
	"io/fs"
	"sync"

	"github.com/dhamidi/javafront/options"
)

//go:embed stubs
var stubs embed.FS

var bootstrap = sync.OnceValue(func() *Library {
	sub, err := fs.Sub(stubs, "stubs")
	if err != nil {
		panic(err)
	}
	lib, err := LoadSources(context.Background(), sub, nil, options.Default())
	if err != nil {
		panic(err)
	}
	if lib.HasErrors() {
		panic("env: bootstrap library does not compile:\n" + lib.Log())
	}
	return lib
})

// Bootstrap returns the built-in library: declarations of the core
// java.lang, java.io and java.util types, compiled once from embedded
// stubs. A class path of real class files takes precedence when chained
// before it.
func Bootstrap() *Library {
	return bootstrap()
}
