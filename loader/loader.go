package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dragonroad/engine/state"
)

// Option configures a load.
type Option func(*options)

type options struct {
	log *log.Logger
}

// WithLogger reports content warnings to l. Without it they are dropped.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	game      *lua.LTable
	player    *lua.LTable
	locations []rawLocation
	order     int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir on disk. See LoadFS.
func Load(dir string, opts ...Option) (*state.Defs, error) {
	return LoadFS(os.DirFS(dir), ".", opts...)
}

// LoadFS reads all .lua files from dir within fsys, compiles them into game
// definitions, validates them, and returns the immutable Defs. The Lua VM
// is discarded after loading.
func LoadFS(fsys fs.FS, dir string, opts ...Option) (*state.Defs, error) {
	o := options{log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		src, err := fs.ReadFile(fsys, path.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(bytes.NewReader(src), f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}

	if err := validate(defs, o.log); err != nil {
		return nil, err
	}

	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not influence the dice.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
