package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"movielog/internal/logging"
	"movielog/internal/movieerr"
)

func sampleRecords() []Record {
	rating := "★★★½"
	subs := "SRT"
	encoder := "FLUX"
	return []Record{
		{
			Title:      "Title Name",
			Year:       2020,
			Rating:     &rating,
			Size:       21.47,
			Duration:   "2h 05min",
			Resolution: 2160,
			BitDepth:   "10bit",
			VideoCodec: "x265",
			AudioCodec: "TrueHD Atmos",
			Subtitles:  &subs,
			Channels:   "7.1",
			Encoder:    &encoder,
			Remux:      true,
			Hash:       "a1b2c3d4",
		},
		{
			Title:      "Foo, the \"Movie\"",
			Year:       1999,
			Size:       4.5,
			Duration:   "1h 32min",
			BitDepth:   "8bit",
			VideoCodec: "x264",
			AudioCodec: "XXX",
			Channels:   "2.0",
			Hash:       "e5f6a7b8",
		},
	}
}

func TestEncodeWritesHeaderAndEmptyOptionals(t *testing.T) {
	data, err := Encode(sampleRecords())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != "TITLE,YEAR,RATING,SIZE,DURATION,RES,BIT_DEPTH,V_CODEC,A_CODEC,SUBS,CHANNELS,ENCODER,REMUX,HASH" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	want := `"Foo, the ""Movie""",1999,,4.5,1h 32min,,8bit,x264,XXX,,2.0,,false,e5f6a7b8`
	if lines[2] != want {
		t.Fatalf("unexpected row:\n got %s\nwant %s", lines[2], want)
	}
}

func TestDecodeRestoresRecords(t *testing.T) {
	original := sampleRecords()
	data, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("expected %d records, got %d", len(original), len(decoded))
	}
	first := decoded[0]
	if first.Size != 21.47 || first.Resolution != 2160 || !first.Remux {
		t.Fatalf("unexpected numeric fields: %+v", first)
	}
	if Deref(first.Rating) != "★★★½" || Deref(first.Encoder) != "FLUX" || Deref(first.Subtitles) != "SRT" {
		t.Fatalf("unexpected optional fields: %+v", first)
	}
	second := decoded[1]
	if second.Rating != nil || second.Subtitles != nil || second.Encoder != nil {
		t.Fatalf("expected absent optionals, got %+v", second)
	}
	if second.Resolution != 0 {
		t.Fatalf("expected unresolved resolution, got %d", second.Resolution)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	header := strings.Join(Header, ",")
	cases := map[string]string{
		"wrong header": strings.Replace(header, "TITLE", "NAME", 1) + "\n",
		"bad year":     header + "\nA,nineteen,,1,1h 00min,,8bit,x264,AAC,,2.0,,false,00000000\n",
		"year range":   header + "\nA,40000,,1,1h 00min,,8bit,x264,AAC,,2.0,,false,00000000\n",
		"bad remux":    header + "\nA,2000,,1,1h 00min,,8bit,x264,AAC,,2.0,,maybe,00000000\n",
		"empty hash":   header + "\nA,2000,,1,1h 00min,,8bit,x264,AAC,,2.0,,false,\n",
		"short row":    header + "\nA,2000\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(input)); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	records, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "movie_log.csv"), logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d", cat.Len())
	}
}

func TestLoadKeepsFirstDuplicateFingerprint(t *testing.T) {
	records := sampleRecords()
	dup := records[1]
	dup.Title = "Shadow"
	dup.Hash = records[0].Hash
	records = append(records, dup)

	data, err := Encode(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "movie_log.csv")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected duplicate to be dropped, got %d records", cat.Len())
	}
	pos, ok := cat.Index()[records[0].Hash]
	if !ok || cat.Records[pos].Title != "Title Name" {
		t.Fatalf("expected first record to win, got %+v", cat.Records)
	}
}

func TestLoadWrapsDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie_log.csv")
	if err := os.WriteFile(path, []byte("NOT,A,CATALOG\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, logging.NewNop())
	if !errors.Is(err, movieerr.ErrCatalogIO) {
		t.Fatalf("expected ErrCatalogIO, got %v", err)
	}
}

func TestSaveReplacesAndBacksUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie_log.csv")
	records := sampleRecords()

	if err := Save(path, New(records[:1]), SaveOptions{Backup: true}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no backup on first save, got %v", err)
	}

	if err := Save(path, New(records), SaveOptions{Backup: true}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	cat, err := Load(path, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 records after replace, got %d", cat.Len())
	}
	prev, err := Load(path+BackupSuffix, logging.NewNop())
	if err != nil {
		t.Fatalf("load backup: %v", err)
	}
	if prev.Len() != 1 {
		t.Fatalf("expected backup to hold previous catalog, got %d records", prev.Len())
	}
}

func TestSaveFailsWithoutParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "movie_log.csv")
	err := Save(path, New(sampleRecords()), SaveOptions{})
	if !errors.Is(err, movieerr.ErrCatalogIO) {
		t.Fatalf("expected ErrCatalogIO, got %v", err)
	}
}

func TestIndexAndUnrecognized(t *testing.T) {
	cat := New(sampleRecords())
	index := cat.Index()
	if index["e5f6a7b8"] != 1 {
		t.Fatalf("unexpected index: %v", index)
	}
	if got := Unrecognized("V_MPEG2"); got != "UNRECOGNIZED:V_MPEG2" {
		t.Fatalf("unexpected sentinel %q", got)
	}
	var nilCat *Catalog
	if nilCat.Len() != 0 || len(nilCat.Index()) != 0 {
		t.Fatal("nil catalog should be empty")
	}
}
