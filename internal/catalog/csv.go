package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Header is the fixed column order of the catalog file.
var Header = []string{
	"TITLE", "YEAR", "RATING", "SIZE", "DURATION", "RES", "BIT_DEPTH",
	"V_CODEC", "A_CODEC", "SUBS", "CHANNELS", "ENCODER", "REMUX", "HASH",
}

const (
	colTitle = iota
	colYear
	colRating
	colSize
	colDuration
	colRes
	colBitDepth
	colVideoCodec
	colAudioCodec
	colSubs
	colChannels
	colEncoder
	colRemux
	colHash
)

// Encode renders records with the header row.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := w.Write(encodeRecord(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRecord(rec Record) []string {
	row := make([]string, len(Header))
	row[colTitle] = rec.Title
	row[colYear] = strconv.FormatInt(int64(rec.Year), 10)
	row[colRating] = Deref(rec.Rating)
	row[colSize] = strconv.FormatFloat(float64(rec.Size), 'f', -1, 32)
	row[colDuration] = rec.Duration
	if rec.Resolution != 0 {
		row[colRes] = strconv.FormatInt(int64(rec.Resolution), 10)
	}
	row[colBitDepth] = rec.BitDepth
	row[colVideoCodec] = rec.VideoCodec
	row[colAudioCodec] = rec.AudioCodec
	row[colSubs] = Deref(rec.Subtitles)
	row[colChannels] = rec.Channels
	row[colEncoder] = Deref(rec.Encoder)
	row[colRemux] = strconv.FormatBool(rec.Remux)
	row[colHash] = rec.Hash
	return row
}

// Decode parses a catalog file. Empty input yields no records.
func Decode(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(head); err != nil {
		return nil, err
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := decodeRecord(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(head []string) error {
	for i, name := range Header {
		if head[i] != name {
			return fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, head[i], name)
		}
	}
	return nil
}

func decodeRecord(row []string) (Record, error) {
	rec := Record{
		Title:      row[colTitle],
		Rating:     StringPtr(row[colRating]),
		Duration:   row[colDuration],
		BitDepth:   row[colBitDepth],
		VideoCodec: row[colVideoCodec],
		AudioCodec: row[colAudioCodec],
		Subtitles:  StringPtr(row[colSubs]),
		Channels:   row[colChannels],
		Encoder:    StringPtr(row[colEncoder]),
		Hash:       row[colHash],
	}
	if rec.Hash == "" {
		return Record{}, errors.New("empty HASH")
	}

	year, err := strconv.ParseInt(row[colYear], 10, 16)
	if err != nil {
		return Record{}, fmt.Errorf("YEAR: %w", err)
	}
	rec.Year = int16(year)

	size, err := strconv.ParseFloat(row[colSize], 32)
	if err != nil {
		return Record{}, fmt.Errorf("SIZE: %w", err)
	}
	rec.Size = float32(size)

	if row[colRes] != "" {
		res, err := strconv.ParseInt(row[colRes], 10, 16)
		if err != nil {
			return Record{}, fmt.Errorf("RES: %w", err)
		}
		rec.Resolution = int16(res)
	}

	remux, err := strconv.ParseBool(row[colRemux])
	if err != nil {
		return Record{}, fmt.Errorf("REMUX: %w", err)
	}
	rec.Remux = remux
	return rec, nil
}
