package shell

import (
	"context"
	"errors"
	"net/http"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("guobiao_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to Lua. The Lua function takes the
// rest of the command line and returns the command's output, or nil and
// an error message.
func luaCommand(name string, fn func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.ToString(1)
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err == nil {
			var r *Response
			r, err = fn(sc, cmd)
			if err == nil {
				L.Push(lua.LString(r.message))
				return 1
			}
		}
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
}

// Analyze takes a request table and returns the response as a table.
func Analyze(L *lua.LState) int {
	req := L.CheckTable(1)
	sc := getShell(L)
	data, err := luajson.Encode(req)
	if err == nil {
		data, err = sc.analyzer.Analyze(context.Background(), data)
	}
	if err == nil {
		var resp lua.LValue
		resp, err = luajson.Decode(L, data)
		if err == nil {
			L.Push(resp)
			return 1
		}
	}
	log.Err(err).Msg("error-executing-analyze")
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func (sc *ShellController) newLuaState() *lua.LState {
	L := lua.NewState()
	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("guobiao_shell", lsc)
	L.SetGlobal("guobiao_fan", L.NewFunction(luaCommand("fan", (*ShellController).fan)))
	L.SetGlobal("guobiao_shanten", L.NewFunction(luaCommand("shanten", (*ShellController).shanten)))
	L.SetGlobal("guobiao_discard", L.NewFunction(luaCommand("discard", (*ShellController).discard)))
	L.SetGlobal("guobiao_wait", L.NewFunction(luaCommand("wait", (*ShellController).wait)))
	L.SetGlobal("guobiao_set", L.NewFunction(luaCommand("set", (*ShellController).set)))
	L.SetGlobal("guobiao_analyze", L.NewFunction(Analyze))
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := sc.newLuaState()
	defer L.Close()

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
