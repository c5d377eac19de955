package discover

import (
	"context"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/flarebyte/diaflow/internal/errors"
)

const defaultFilterTimeout = time.Second

// luaPredicate evaluates an operator-supplied expression against one file.
type luaPredicate struct {
	code    string
	timeout time.Duration
}

// newLuaPredicate accepts either a single expression or a chunk ending in
// return.
func newLuaPredicate(code string, timeout time.Duration) *luaPredicate {
	if wrapped := asReturn(code); parses(wrapped) {
		code = wrapped
	}
	if timeout <= 0 {
		timeout = defaultFilterTimeout
	}
	return &luaPredicate{code: code, timeout: timeout}
}

func asReturn(code string) string {
	return "return (" + code + "\n)"
}

// parses reports whether code is a valid Lua chunk.
func parses(code string) bool {
	_, err := parse.Parse(strings.NewReader(code), "filter")
	return err == nil
}

// Keep runs the predicate with the global `file` bound to facts.
// Any value other than nil or false keeps the file.
func (p *luaPredicate) Keep(facts map[string]any) (bool, error) {
	L := newSandboxState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("file", toLValue(L, facts))
	fn, err := L.LoadString(p.code)
	if err != nil {
		return false, errors.Wrap(err, "compile filter")
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if ctx.Err() != nil {
			return false, errors.Newf("filter exceeded %s", p.timeout)
		}
		return false, errors.Wrap(err, "run filter")
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// newSandboxState opens only the libraries a predicate needs: no io, os or
// package loading.
func newSandboxState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	case map[string]any:
		tbl := L.NewTable()
		for k, v2 := range x {
			tbl.RawSetString(k, toLValue(L, v2))
		}
		return tbl
	default:
		return lua.LNil
	}
}
