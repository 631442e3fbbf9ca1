package callback

import (
	"net/url"
	"testing"
)

func TestURL_String(t *testing.T) {
	tests := []struct {
		name string
		url  *URL
		want string
	}{
		{name: "no params", url: New(OmniFocusAdd), want: "omnifocus:///add"},
		{
			name: "keeps insertion order",
			url:  New(OmniFocusAdd).Add("name", "b").Add("flag", "true").Add("due", "a"),
			want: "omnifocus:///add?name=b&flag=true&due=a",
		},
		{
			name: "spaces as %20",
			url:  RunShortcut("Take Coat"),
			want: "shortcuts://run-shortcut?name=Take%20Coat",
		},
		{
			name: "reserved characters",
			url:  New(OmniFocusAdd).Add("project", "Work : Calendar").Add("note", "a&b=c+d"),
			want: "omnifocus:///add?project=Work%20%3A%20Calendar&note=a%26b%3Dc%2Bd",
		},
		{
			name: "base with query",
			url:  New("app://do?x=1").Add("y", "2"),
			want: "app://do?x=1&y=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.url.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaste_RoundTrip(t *testing.T) {
	text := "- Trip to Paris @parallel(true)\n\t- Pack bags\n"
	u := Paste("Travel", text)

	parsed, err := url.Parse(u.String())
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	q := parsed.Query()
	if q.Get("target") != "Travel" {
		t.Errorf("target = %q, want %q", q.Get("target"), "Travel")
	}
	if q.Get("content") != text {
		t.Errorf("content = %q, want %q", q.Get("content"), text)
	}
	if v, ok := u.Get("content"); !ok || v != text {
		t.Errorf("Get(content) = %q, %v", v, ok)
	}
	if _, ok := u.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}
