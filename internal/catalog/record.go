package catalog

// UnrecognizedPrefix marks a field whose raw value was outside the known
// tables when the run used the mark policy.
const UnrecognizedPrefix = "UNRECOGNIZED:"

// Unrecognized returns the sentinel stored for an unclassifiable raw value.
func Unrecognized(raw string) string {
	return UnrecognizedPrefix + raw
}

// Record is one catalogued movie.
type Record struct {
	Title  string
	Year   int16
	Rating *string
	// Size is the human-scaled size, in GB for any real movie file.
	Size     float32
	Duration string
	// Resolution is 2160 or 1080, or 0 when unresolved.
	Resolution int16
	BitDepth   string
	VideoCodec string
	AudioCodec string
	Subtitles  *string
	Channels   string
	Encoder    *string
	Remux      bool
	Hash       string
}

// Catalog is an ordered record set.
type Catalog struct {
	Records []Record
}

// New returns a catalog holding records in order.
func New(records []Record) *Catalog {
	return &Catalog{Records: records}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Index maps each fingerprint to the position of its record.
func (c *Catalog) Index() map[string]int {
	if c == nil {
		return map[string]int{}
	}
	index := make(map[string]int, len(c.Records))
	for i, rec := range c.Records {
		if _, ok := index[rec.Hash]; !ok {
			index[rec.Hash] = i
		}
	}
	return index
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
