package naming_test

import (
	"errors"
	"testing"

	"movielog/internal/movieerr"
	"movielog/internal/naming"
)

func TestConventionParserExtractsTitleAndYear(t *testing.T) {
	tests := []struct {
		name      string
		prefix    int
		input     string
		wantTitle string
		wantYear  int16
	}{
		{"documented example", 3, "M: Title Name (2020) [2160p]", "Title Name", 2020},
		{"drive prefix", 3, "D:/Blade Runner (1982) [1080p]", "Blade Runner", 1982},
		{"nested path", 3, "D:/Alien (1979) [2160p]/Alien.1979.mkv", "Alien", 1979},
		{"library root", len("/srv/movies/"), "/srv/movies/The Thing (1982) [1080p x264]/movie.mkv", "The Thing", 1982},
		{"parenthesis in file part", 3, "D:/Heat (1995) [1080p]/Heat (Director).mkv", "Heat", 1995},
		{"parenthesised library root", len("/mnt/Movies (4K)/"), "/mnt/Movies (4K)/Alien (1979) [2160p]/Alien.mkv", "Alien", 1979},
		{"library root with closing parenthesis only", len("/mnt/Movies 4K)/"), "/mnt/Movies 4K)/Alien (1979) [2160p]/Alien.mkv", "Alien", 1979},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, year, err := naming.NewConventionParser(tt.prefix).Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if title != tt.wantTitle || year != tt.wantYear {
				t.Fatalf("Parse(%q) = (%q, %d), want (%q, %d)", tt.input, title, year, tt.wantTitle, tt.wantYear)
			}
		})
	}
}

func TestConventionParserRejectsMalformedNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no parentheses", "D:/Blade Runner [1080p]"},
		{"no closing", "D:/Blade Runner (1982 [1080p]"},
		{"closing first", "D:/Blade) Runner (1982"},
		{"year not a number", "D:/Blade Runner (abcd) [1080p]"},
		{"year overflows int16", "D:/Blade Runner (40000)"},
		{"prefix overruns title", "D:(1982)"},
		{"title starts with parenthesis", "D:/(1982) [1080p]"},
		{"prefix longer than name", "D:"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := naming.NewConventionParser(3).Parse(tt.input)
			if !errors.Is(err, movieerr.ErrMalformedName) {
				t.Fatalf("expected ErrMalformedName, got %v", err)
			}
			if !movieerr.IsClassification(err) {
				t.Fatalf("malformed names must classify as classification errors: %v", err)
			}
		})
	}
}

func TestNewConventionParserDefaultsPrefix(t *testing.T) {
	if got := naming.NewConventionParser(0).PrefixLen; got != naming.DefaultPrefixLen {
		t.Fatalf("expected default prefix %d, got %d", naming.DefaultPrefixLen, got)
	}
}

func TestEncoderTag(t *testing.T) {
	tags := []string{"Tigole", "FraMeSToR", "DDR", "Joy"}
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"D:/Alien (1979) [1080p x265 10bit Tigole]", "Tigole", true},
		{"D:/Alien (1979) [1080p tigole]", "", false},
		{"D:/Alien (1979) [FraMeSToR Tigole]", "Tigole", true},
		{"D:/Joyride (2001) [DDR]", "DDR", true},
		{"D:/Alien (1979) [1080p]", "", false},
	}
	for _, tt := range tests {
		got, ok := naming.EncoderTag(tt.input, tags)
		if got != tt.want || ok != tt.ok {
			t.Errorf("EncoderTag(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsRemux(t *testing.T) {
	tests := map[string]bool{
		"D:/Alien (1979) [REMUX]":        true,
		"D:/Alien (1979) [BluRay.Remux]": true,
		"D:/Alien (1979) [remux 2160p]":  true,
		"D:/Alien (1979) [1080p]":        false,
	}
	for input, want := range tests {
		if got := naming.IsRemux(input); got != want {
			t.Errorf("IsRemux(%q) = %v, want %v", input, got, want)
		}
	}
}
