package catalog

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "Happy (Remastered 2014)", want: "happy"},
		{in: "Sweet Child O' Mine", want: "sweet child o mine"},
		{in: "Song feat. Somebody", want: "song somebody"},
		{in: "Track [Deluxe Edition] - Live", want: "track live"},
		{in: "  Guns N’ Roses  ", want: "guns n roses"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		in, title, artist string
	}{
		{in: "Billie Jean - Michael Jackson", title: "Billie Jean", artist: "Michael Jackson"},
		{in: "Billie Jean", title: "Billie Jean"},
		{in: "Up-Tempo - Band - Other", title: "Up-Tempo - Band", artist: "Other"},
	}
	for _, tt := range tests {
		title, artist := splitQuery(tt.in)
		if title != tt.title || artist != tt.artist {
			t.Errorf("splitQuery(%q) = (%q, %q), want (%q, %q)", tt.in, title, artist, tt.title, tt.artist)
		}
	}
}
