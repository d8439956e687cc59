package command

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	. "github.com/Comcast/wxrobot/util/testutil"
)

// quiet silences Logf for the duration of a test.
func quiet(t *testing.T) {
	logf := Logf
	Logf = func(string, ...interface{}) {}
	t.Cleanup(func() { Logf = logf })
}

func TestNew(t *testing.T) {
	x := Dwimjs(`{"type":"echo","hidden":true,"description":"Says hi",
                      "env":{"who":"world","n":2,"flag":true,"none":null,"xs":[1]}}`)
	c, err := New(`^hi (?P<name>\w+)`, x)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != `^hi (?P<name>\w+)` || c.Pattern() != c.Name() {
		t.Fatal(c.Name())
	}
	if c.Kind() != KindEcho {
		t.Fatal(c.Kind())
	}
	if !c.Hidden() || c.Description() != "Says hi" {
		t.Fatal(c.Hidden(), c.Description())
	}
	want := Env{
		"WXWORK_ROBOT_CMD_WHO":  "world",
		"WXWORK_ROBOT_CMD_N":    "2",
		"WXWORK_ROBOT_CMD_FLAG": "true",
		"WXWORK_ROBOT_CMD_NONE": "null",
		"WXWORK_ROBOT_CMD_XS":   "[1]",
	}
	if !reflect.DeepEqual(c.Env(), want) {
		t.Fatal(JS(c.Env()))
	}

	// Env returns a copy.
	c.Env()["WXWORK_ROBOT_CMD_WHO"] = "nobody"
	if c.Env()["WXWORK_ROBOT_CMD_WHO"] != "world" {
		t.Fatal("env aliased")
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New("status", Dwimjs(`{"type":"help","env":"not an object"}`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Hidden() || c.Description() != "" || len(c.Env()) != 0 {
		t.Fatal(c.Hidden(), c.Description(), c.Env())
	}
}

func TestNewBadPattern(t *testing.T) {
	_, err := New("deploy (", Dwimjs(`{"type":"echo"}`))
	var e *BadPattern
	if !errors.As(err, &e) {
		t.Fatalf("%v (%T)", err, err)
	}
}

func TestVisibleDescription(t *testing.T) {
	tests := []struct {
		decl    string
		want    string
		visible bool
	}{
		{`{"type":"echo","hidden":true,"description":"secret"}`, "", false},
		{`{"type":"echo","hidden":true}`, "", false},
		{`{"type":"echo","description":"Shows status"}`, "Shows status", true},
		{`{"type":"echo","description":""}`, "status", true},
		{`{"type":"echo","hidden":"yes"}`, "status", true},
	}
	for _, test := range tests {
		c, err := New("status", Dwimjs(test.decl))
		if err != nil {
			t.Fatal(err)
		}
		got, visible := c.VisibleDescription()
		if got != test.want || visible != test.visible {
			t.Fatalf("%s: got %q %v", test.decl, got, visible)
		}
	}
}

func TestParseDropsBadDeclarations(t *testing.T) {
	quiet(t)

	doc := Dwimjs(`{
  "echo":          {"type":"echo"},
  "notype":        {"echo":"x"},
  "unknown":       {"type":"fly"},
  "spawn":         {"type":"spawn","exec":"ls"},
  "spawnnoexec":   {"type":"spawn"},
  "http":          {"type":"http","url":"http://localhost"},
  "httpnourl":     {"type":"http"},
  "bad(":          {"type":"echo"},
  "notanobject":   42,
  "help":          {"type":"help"}
}`)

	table := Parse(doc)
	var names []string
	for _, c := range table {
		names = append(names, c.Name())
	}
	// A map document is sorted by name.
	want := []string{"echo", "help", "http", "spawn"}
	if !reflect.DeepEqual(names, want) {
		t.Fatal(names)
	}
}

func TestParseLogsDrops(t *testing.T) {
	var logged []string
	logf := Logf
	Logf = func(format string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}
	defer func() { Logf = logf }()

	Parse(Declarations{
		{Name: "a", Value: Dwimjs(`{"type":"spawn"}`)},
		{Name: "b", Value: Dwimjs(`{"type":"echo"}`)},
	})
	if len(logged) != 1 {
		t.Fatal(logged)
	}
}

func TestParseDeclaredOrder(t *testing.T) {
	table := Parse(Declarations{
		{Name: "zeta", Value: Dwimjs(`{"type":"echo"}`)},
		{Name: "alpha", Value: Dwimjs(`{"type":"echo"}`)},
		{Name: "mid", Value: Dwimjs(`{"type":"echo"}`)},
	})
	if len(table) != 3 || table[0].Name() != "zeta" || table[1].Name() != "alpha" || table[2].Name() != "mid" {
		t.Fatal(len(table))
	}
}

func TestParseNotAnObject(t *testing.T) {
	for _, x := range []interface{}{nil, "x", []interface{}{1}, 3.0} {
		if table := Parse(x); len(table) != 0 {
			t.Fatal(x, len(table))
		}
	}
}

func TestTableFindFirstMatch(t *testing.T) {
	table := Parse(Declarations{
		{Name: `^deploy (?P<service>\S+)`, Value: Dwimjs(`{"type":"echo","echo":"first"}`)},
		{Name: `^deploy`, Value: Dwimjs(`{"type":"echo","echo":"second"}`)},
		{Name: `^help$`, Value: Dwimjs(`{"type":"help","hidden":true}`)},
	})

	c, env := table.Find("deploy service-a")
	if c == nil || c.Variant().(Echo).Reply != "first" {
		t.Fatal(c)
	}
	if env["WXWORK_ROBOT_CMD_SERVICE"] != "service-a" {
		t.Fatal(JS(env))
	}

	if c, _ = table.Find("deploy"); c == nil || c.Variant().(Echo).Reply != "second" {
		t.Fatal(c)
	}

	if c, env = table.Find("what"); c != nil || env != nil {
		t.Fatal(c, env)
	}

	if got := table.Visible(); !reflect.DeepEqual(got, []string{`^deploy (?P<service>\S+)`, `^deploy`}) {
		t.Fatal(got)
	}
}
