// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
)

// fields is a comparable view of a Message
type fields struct {
	From    string
	User    string
	Host    string
	HasFrom bool
	HasUser bool
	HasHost bool
	Command string
	Params  []string
}

func fieldsOf(m Message) (f fields) {
	f.From, f.HasFrom = m.From()
	f.User, f.HasUser = m.User()
	f.Host, f.HasHost = m.Host()
	f.Command = m.Command()
	f.Params = m.Params()
	return
}

func nick(from string) fields {
	return fields{From: from, HasFrom: true}
}

func (f fields) with(command string, params ...string) fields {
	f.Command = command
	f.Params = params
	return f
}

// cases from https://github.com/ircdocs/parser-tests/blob/master/tests/msg-split.yaml
var msgSplitTests = []struct {
	line     string
	expected fields
}{
	{"foo bar baz asdf", fields{}.with("foo", "bar", "baz", "asdf")},
	{":coolguy foo bar baz asdf", nick("coolguy").with("foo", "bar", "baz", "asdf")},
	{"foo bar baz :asdf quux", fields{}.with("foo", "bar", "baz", "asdf quux")},
	{"foo bar baz :", fields{}.with("foo", "bar", "baz", "")},
	{"foo bar baz ::asdf", fields{}.with("foo", "bar", "baz", ":asdf")},
	{":coolguy foo bar baz :asdf quux", nick("coolguy").with("foo", "bar", "baz", "asdf quux")},
	{":coolguy foo bar baz :  asdf quux ", nick("coolguy").with("foo", "bar", "baz", "  asdf quux ")},
	{":coolguy PRIVMSG bar :lol :) ", nick("coolguy").with("PRIVMSG", "bar", "lol :) ")},
	{":coolguy foo bar baz :", nick("coolguy").with("foo", "bar", "baz", "")},
	{":coolguy foo bar baz :  ", nick("coolguy").with("foo", "bar", "baz", "  ")},
	{":src JOIN #chan", nick("src").with("JOIN", "#chan")},
	{":src JOIN :#chan", nick("src").with("JOIN", "#chan")},
	{":src AWAY", nick("src").with("AWAY")},
	{":src AWAY ", nick("src").with("AWAY")},
	{":cool\tguy foo bar baz", nick("cool\tguy").with("foo", "bar", "baz")},
	{
		":coolguy!ag@net\x035w\x03ork.admin PRIVMSG foo :bar baz",
		fields{From: "coolguy", User: "ag", Host: "net\x035w\x03ork.admin", HasFrom: true, HasUser: true, HasHost: true}.with("PRIVMSG", "foo", "bar baz"),
	},
	{
		":coolguy!~ag@n\x02et\x0305w\x0fork.admin PRIVMSG foo :bar baz",
		fields{From: "coolguy", User: "~ag", Host: "n\x02et\x0305w\x0fork.admin", HasFrom: true, HasUser: true, HasHost: true}.with("PRIVMSG", "foo", "bar baz"),
	},
	{"COMMAND", fields{}.with("COMMAND")},
	{":gravel.mozilla.org 432  #momo :Erroneous Nickname: Illegal characters", nick("gravel.mozilla.org").with("432", "#momo", "Erroneous Nickname: Illegal characters")},
	{":gravel.mozilla.org MODE #tckk +n ", nick("gravel.mozilla.org").with("MODE", "#tckk", "+n")},
	{":services.esper.net MODE #foo-bar +o foobar  ", nick("services.esper.net").with("MODE", "#foo-bar", "+o", "foobar")},
	{":SomeOp MODE #channel :+i", nick("SomeOp").with("MODE", "#channel", "+i")},
	{":SomeOp MODE #channel +oo SomeUser :AnotherUser", nick("SomeOp").with("MODE", "#channel", "+oo", "SomeUser", "AnotherUser")},
}

func TestMsgSplit(t *testing.T) {
	for _, test := range msgSplitTests {
		msg := ParseString(test.line)
		if diff := deep.Equal(fieldsOf(msg), test.expected); diff != nil {
			t.Errorf("parsing %q: %v", test.line, diff)
		}
		if msg.String() != test.line {
			t.Errorf("raw line not preserved: %q != %q", msg.String(), test.line)
		}
	}
}

func TestPrefixSplit(t *testing.T) {
	cases := []struct {
		line     string
		expected fields
	}{
		{":nick!user@host CMD", fields{From: "nick", User: "user", Host: "host", HasFrom: true, HasUser: true, HasHost: true}.with("CMD")},
		{":nick@host CMD", fields{From: "nick", Host: "host", HasFrom: true, HasHost: true}.with("CMD")},
		{":nick!user CMD", fields{From: "nick", User: "user", HasFrom: true, HasUser: true}.with("CMD")},
		{":irc.example.com CMD", nick("irc.example.com").with("CMD")},
		// empty parts are present, not absent
		{":nick!@ CMD", fields{From: "nick", HasFrom: true, HasUser: true, HasHost: true}.with("CMD")},
		// only the first @ splits off the host
		{":a@b!c@d CMD", fields{From: "a", Host: "b!c@d", HasFrom: true, HasHost: true}.with("CMD")},
		{
			":Fredi!FrediMachado@172.17.0.1 PRIVMSG Fredi_ :test test",
			fields{From: "Fredi", User: "FrediMachado", Host: "172.17.0.1", HasFrom: true, HasUser: true, HasHost: true}.with("PRIVMSG", "Fredi_", "test test"),
		},
	}
	for _, c := range cases {
		if diff := deep.Equal(fieldsOf(ParseString(c.line)), c.expected); diff != nil {
			t.Errorf("parsing %q: %v", c.line, diff)
		}
	}
}

func TestDegradedInput(t *testing.T) {
	cases := []struct {
		line     string
		expected fields
	}{
		{"", fields{}},
		{":", nick("")},
		// a prefix with nothing after it has no command
		{":nick!user@host", fields{From: "nick", User: "user", Host: "host", HasFrom: true, HasUser: true, HasHost: true}},
		{":nick ", nick("nick")},
		{"CMD ", fields{}.with("CMD")},
		{"CMD   a   b", fields{}.with("CMD", "a", "b")},
		{" CMD", fields{}.with("", "CMD")},
		{"CMD a\tb", fields{}.with("CMD", "a\tb")},
	}
	for _, c := range cases {
		if diff := deep.Equal(fieldsOf(ParseString(c.line)), c.expected); diff != nil {
			t.Errorf("parsing %q: %v", c.line, diff)
		}
	}
}

func TestLeakedTerminator(t *testing.T) {
	cases := []struct {
		line     string
		expected fields
	}{
		{"PING\r\n", fields{}.with("PING")},
		{"PING :abc\r\n", fields{}.with("PING", "abc")},
		{"CMD a b\r\n", fields{}.with("CMD", "a", "b")},
		{"CMD a :\r\n", fields{}.with("CMD", "a", "")},
		{"CMD a\n", fields{}.with("CMD", "a")},
		{":nick\r\n", nick("nick")},
	}
	for _, c := range cases {
		if diff := deep.Equal(fieldsOf(ParseString(c.line)), c.expected); diff != nil {
			t.Errorf("parsing %q: %v", c.line, diff)
		}
	}
}

func TestTrailing(t *testing.T) {
	msg := ParseString("CMD a b :c d")
	if msg.Command() != "CMD" {
		t.Errorf("bad command %q", msg.Command())
	}
	if diff := deep.Equal(msg.Params(), []string{"a", "b", "c d"}); diff != nil {
		t.Error(diff)
	}
	if msg.Trailing() != "c d" {
		t.Errorf("bad trailing %q", msg.Trailing())
	}

	msg = ParseString("QUIT")
	if msg.Trailing() != "" || msg.Params() != nil {
		t.Errorf("expected no params, got %#v", msg.Params())
	}
	if msg.Param(0) != "" || msg.Param(-1) != "" {
		t.Error("out of range Param should be empty")
	}
}

func TestMessageImmutable(t *testing.T) {
	line := []byte(":nick!user@host PRIVMSG #chan :hi there")
	msg := Parse(line)
	copy(line, "XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX")

	params := msg.Params()
	params[0] = "#other"
	raw := msg.Raw()
	raw[0] = '!'

	if msg.Param(0) != "#chan" {
		t.Errorf("params were aliased: %q", msg.Param(0))
	}
	if msg.String() != ":nick!user@host PRIVMSG #chan :hi there" {
		t.Errorf("raw was aliased: %q", msg.String())
	}
	if from, _ := msg.From(); from != "nick" {
		t.Errorf("prefix was aliased: %q", from)
	}
}

func TestSource(t *testing.T) {
	cases := map[string]string{
		":nick!user@host CMD": "nick!user@host",
		":nick@host CMD":      "nick@host",
		":nick!user CMD":      "nick!user",
		":server.name CMD":    "server.name",
		"CMD":                 "",
	}
	for line, source := range cases {
		msg := ParseString(line)
		if msg.Source() != source {
			t.Errorf("%q: expected source %q, got %q", line, source, msg.Source())
		}
	}
}

func TestIRCMsg(t *testing.T) {
	msg := ParseString(":nick!user@host PRIVMSG #chan :hello world")
	converted := msg.IRCMsg()
	line, err := converted.Line()
	if err != nil {
		t.Fatal(err)
	}
	if line != ":nick!user@host PRIVMSG #chan :hello world\r\n" {
		t.Errorf("unexpected serialization %q", line)
	}
	if converted.Nick() != "nick" {
		t.Errorf("unexpected nick %q", converted.Nick())
	}
}

// Parse must accept any input at all, and keep an exact copy of it
func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"",
		":",
		" ",
		":nick!user@host",
		":nick!user@host PRIVMSG #chan :hello world\r\n",
		"foo bar baz ::asdf",
		"foo  bar   :",
		"\r\n",
		"CMD\ta :b\x00c",
		"@tags=1 :src CMD",
	} {
		f.Add([]byte(seed))
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		msg := Parse(input)
		if !bytes.Equal(msg.Raw(), input) {
			t.Errorf("Raw() %q does not match input %q", msg.Raw(), input)
		}
		if _, hasFrom := msg.From(); !hasFrom {
			_, hasUser := msg.User()
			_, hasHost := msg.Host()
			if hasUser || hasHost {
				t.Errorf("user or host without from for %q", input)
			}
		}
		if len(msg.Params()) == 0 && msg.Trailing() != "" {
			t.Errorf("trailing without params for %q", input)
		}
	})
}

func BenchmarkParse(b *testing.B) {
	line := []byte(":coolguy!~ag@example.com PRIVMSG #chan :hello there, how are you")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Parse(line)
	}
}
