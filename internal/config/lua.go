package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andrebq/bookshelf/internal/lua/luadefaults"
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

const (
	globalTable = "bookshelf"
)

type (
	// luaConfig mirrors Config with the types a Lua table can carry,
	// gluamapper maps snake_case keys onto these names
	luaConfig struct {
		Bind             string
		UsersDsn         string
		LibraryDir       string
		LibraryDb        string
		Realm            string
		HashMethod       string
		SaltLength       int
		MinScore         *int
		CacheMaxMb       int
		CacheCleanWindow string
		LogLevel         string
		PrettyLogs       bool
	}
)

// LoadLua runs file and applies whatever it set in the bookshelf table on
// top of base.
func LoadLua(ctx context.Context, file string, base Config) (Config, error) {
	code, err := os.ReadFile(file)
	if err != nil {
		return base, fmt.Errorf("unable to read configuration %v, cause %w", file, err)
	}
	return loadLuaString(ctx, file, string(code), base)
}

func loadLuaString(ctx context.Context, name, code string, base Config) (Config, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	luadefaults.InjectConfigLibs(L)
	L.SetContext(ctx)
	L.SetGlobal("env", L.NewFunction(luaEnv))
	table := L.NewTable()
	L.SetGlobal(globalTable, table)

	fn, err := L.Load(strings.NewReader(code), name)
	if err != nil {
		return base, fmt.Errorf("unable to parse configuration %v, cause %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return base, fmt.Errorf("unable to run configuration %v, cause %w", name, err)
	}
	if replaced, ok := L.GetGlobal(globalTable).(*lua.LTable); ok {
		table = replaced
	}
	var lc luaConfig
	if err := gluamapper.Map(table, &lc); err != nil {
		return base, fmt.Errorf("unable to map configuration %v, cause %w", name, err)
	}
	return lc.apply(base)
}

func luaEnv(L *lua.LState) int {
	v, ok := os.LookupEnv(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LString(v))
	}
	return 1
}

func (lc luaConfig) apply(c Config) (Config, error) {
	setString(&c.Bind, lc.Bind)
	setString(&c.UsersDSN, lc.UsersDsn)
	setString(&c.LibraryDir, lc.LibraryDir)
	setString(&c.LibraryDB, lc.LibraryDb)
	setString(&c.Realm, lc.Realm)
	setString(&c.HashMethod, lc.HashMethod)
	setString(&c.LogLevel, lc.LogLevel)
	if lc.SaltLength != 0 {
		c.SaltLength = lc.SaltLength
	}
	if lc.MinScore != nil {
		c.MinScore = *lc.MinScore
	}
	if lc.CacheMaxMb != 0 {
		c.CacheMaxMB = lc.CacheMaxMb
	}
	if lc.PrettyLogs {
		c.PrettyLogs = true
	}
	var err error
	if lc.CacheCleanWindow != "" {
		if c.CacheCleanWindow, err = ParseDuration(lc.CacheCleanWindow); err != nil {
			return c, InvalidConfig{Field: "cache_clean_window", Reason: err.Error()}
		}
	}
	return c, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ParseDuration accepts everything time.ParseDuration does plus a plain
// number of days, like "7d".
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid number of days %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
