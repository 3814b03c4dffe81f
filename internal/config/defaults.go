package config

const (
	defaultLibraryDir     = "~/movies"
	defaultStateDir       = "~/.local/share/movielog"
	defaultCatalogName    = "movie_log.csv"
	defaultExtension      = ".mkv"
	defaultMaxDepth       = 2
	defaultThreshold      = 0.8
	defaultRequestTimeout = 30
	defaultRetries        = 2
	defaultFFprobeBinary  = "ffprobe"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Matching algorithms understood by the rating matcher.
const (
	AlgorithmRatio       = "ratio"
	AlgorithmJaroWinkler = "jaro-winkler"
)

// Policies for entries that cannot be classified or named.
const (
	PolicyAbort = "abort"
	PolicyMark  = "mark"
)

// defaultEncoders lists the release group tags recognized in folder names.
// Order matters: the first tag found in a name wins.
var defaultEncoders = []string{
	"Tigole", "FraMeSToR", "Silence", "afm72", "DDR", "Bandi", "SAMPA", "3xO",
	"Joy", "RARBG", "SARTRE", "PHOCiS", "TERMiNAL", "PSA", "K1tKat", "FreetheFish",
	"Natty", "IchtyFinger", "BeiTai", "LEGi0N", "HDH", "HANDS", "GREENOTEA",
	"IWFM", "FRDS", "Ritaj", "Enthwar", "t3nzin", "EDG",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StateDir:   defaultStateDir,
		},
		Scan: Scan{
			Extensions: []string{defaultExtension},
			MaxDepth:   defaultMaxDepth,
		},
		Naming: Naming{
			Encoders: append([]string(nil), defaultEncoders...),
		},
		Ratings: Ratings{
			Enabled:        true,
			Threshold:      defaultThreshold,
			Algorithm:      AlgorithmRatio,
			RequestTimeout: defaultRequestTimeout,
			Retries:        defaultRetries,
		},
		Reconcile: Reconcile{
			Policy: PolicyAbort,
		},
		Probe: Probe{
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
