package lua

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestBridgeToLuaScalars(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()
	b := NewBridge(u.LState())

	tests := []struct {
		in   any
		want lua.LValue
	}{
		{nil, lua.LNil},
		{true, lua.LTrue},
		{42, lua.LNumber(42)},
		{int64(7), lua.LNumber(7)},
		{3.5, lua.LNumber(3.5)},
		{"hi", lua.LString("hi")},
		{[]byte("raw"), lua.LString("raw")},
	}

	for _, tt := range tests {
		if got := b.ToLua(tt.in); got != tt.want {
			t.Errorf("ToLua(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBridgeToLuaMap(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()
	b := NewBridge(u.LState())

	v := b.ToLua(map[string]any{"path": "/tmp/f.py", "line": 3})
	tbl, ok := v.(*lua.LTable)
	if !ok {
		t.Fatalf("ToLua(map) = %T, want table", v)
	}
	if got := tbl.RawGetString("path"); got != lua.LString("/tmp/f.py") {
		t.Errorf("path = %v", got)
	}
	if got := tbl.RawGetString("line"); got != lua.LNumber(3) {
		t.Errorf("line = %v", got)
	}
}

func TestBridgeToGoRoundValues(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()
	b := NewBridge(u.LState())

	if got := b.toGo(lua.LString("x")); got != "x" {
		t.Errorf("ToGo(string) = %v", got)
	}
	if got := b.toGo(lua.LNumber(5)); got != int64(5) {
		t.Errorf("ToGo(5) = %v (%T), want int64", got, got)
	}
	if got := b.toGo(lua.LNumber(5.5)); got != 5.5 {
		t.Errorf("ToGo(5.5) = %v", got)
	}
	if got := b.toGo(lua.LTrue); got != true {
		t.Errorf("ToGo(true) = %v", got)
	}
	if got := b.toGo(lua.LNil); got != nil {
		t.Errorf("ToGo(nil) = %v", got)
	}
}

func TestBridgeToGoArrayTable(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if err := u.DoString(`arr = {"a", "b", "c"}`); err != nil {
		t.Fatal(err)
	}

	b := NewBridge(u.LState())
	got := b.toGo(u.Global("arr"))
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToGo(arr) = %v, want %v", got, want)
	}
}

func TestBridgeToGoMapTable(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if err := u.DoString(`m = {name = "scriptor", count = 2}`); err != nil {
		t.Fatal(err)
	}

	b := NewBridge(u.LState())
	got, ok := b.toGo(u.Global("m")).(map[string]any)
	if !ok {
		t.Fatal("ToGo(m) is not a map")
	}
	if got["name"] != "scriptor" {
		t.Errorf("name = %v", got["name"])
	}
	if got["count"] != int64(2) {
		t.Errorf("count = %v", got["count"])
	}
}

func TestBridgeToGoCircularTable(t *testing.T) {
	u, err := NewUnit()
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if err := u.DoString(`
		c = {}
		c.self = c
	`); err != nil {
		t.Fatal(err)
	}

	b := NewBridge(u.LState())
	got, ok := b.toGo(u.Global("c")).(map[string]any)
	if !ok {
		t.Fatal("ToGo(c) is not a map")
	}
	if got["self"] != nil {
		t.Errorf("circular reference should convert to nil, got %v", got["self"])
	}
}
