package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// Decision is the human verdict attached to a record.
type Decision string

const (
	// DecisionNone marks a record that has not been reviewed yet.
	DecisionNone Decision = ""
	// DecisionRemove relocates a file already verified present in Photos.
	DecisionRemove Decision = "remove"
	// DecisionImportRemove imports the file into Photos before relocation.
	DecisionImportRemove Decision = "import_remove"
	// DecisionKeep leaves the file in place.
	DecisionKeep Decision = "keep"
)

var allDecisions = []Decision{DecisionRemove, DecisionImportRemove, DecisionKeep}

// AllDecisions returns the ordered list of committed decision values.
func AllDecisions() []Decision {
	cp := make([]Decision, len(allDecisions))
	copy(cp, allDecisions)
	return cp
}

// ParseDecision converts a string into a known Decision.
func ParseDecision(value string) (Decision, bool) {
	normalized := Decision(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case DecisionNone, DecisionRemove, DecisionImportRemove, DecisionKeep:
		return normalized, true
	default:
		return "", false
	}
}

// IsActionable reports whether the decision implies a file move.
func (d Decision) IsActionable() bool {
	return d == DecisionRemove || d == DecisionImportRemove
}

// Category buckets records by extension for reporting.
type Category string

const (
	CategoryVideo    Category = "video"
	CategoryImage    Category = "image"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
	CategoryArchive  Category = "archive"
	CategoryOther    Category = "other"
)

var categoryByExt = map[string]Category{
	".mov": CategoryVideo, ".mp4": CategoryVideo, ".m4v": CategoryVideo,
	".avi": CategoryVideo, ".mkv": CategoryVideo, ".wmv": CategoryVideo,
	".flv": CategoryVideo, ".webm": CategoryVideo, ".mpeg": CategoryVideo,
	".mpg": CategoryVideo,

	".jpg": CategoryImage, ".jpeg": CategoryImage, ".png": CategoryImage,
	".gif": CategoryImage, ".heic": CategoryImage, ".heif": CategoryImage,
	".bmp": CategoryImage, ".tiff": CategoryImage, ".tif": CategoryImage,
	".webp": CategoryImage, ".svg": CategoryImage,

	".mp3": CategoryAudio, ".m4a": CategoryAudio, ".wav": CategoryAudio,
	".aac": CategoryAudio, ".flac": CategoryAudio, ".ogg": CategoryAudio,
	".wma": CategoryAudio, ".aiff": CategoryAudio,

	".pdf": CategoryDocument, ".doc": CategoryDocument, ".docx": CategoryDocument,
	".txt": CategoryDocument, ".rtf": CategoryDocument, ".pages": CategoryDocument,

	".zip": CategoryArchive, ".rar": CategoryArchive, ".7z": CategoryArchive,
	".tar": CategoryArchive, ".gz": CategoryArchive, ".bz2": CategoryArchive,
}

// CategoryForPath derives a category from a file's extension.
func CategoryForPath(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	if category, ok := categoryByExt[ext]; ok {
		return category
	}
	return CategoryOther
}

// MatchInfo describes a Photos library hit for a record. It is a filename
// plus byte-size heuristic, never a proof of content equality.
type MatchInfo struct {
	AssetID  int64  `json:"asset_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Matches  int    `json:"matches"`
}

// Record represents one candidate attachment file.
type Record struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	Category  Category
	Digest    string
	InLibrary bool
	Match     *MatchInfo
	Decision  Decision
	DecidedAt *time.Time
	Missing   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Undecided reports whether the record still needs a review verdict.
func (r *Record) Undecided() bool {
	return r.Decision == DecisionNone
}
