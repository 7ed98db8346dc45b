package config

const (
	defaultAttachmentsDir    = "~/Library/Messages/Attachments"
	defaultReviewDir         = "~/Desktop/winnow-review"
	defaultStateDir          = "~/.local/share/winnow"
	defaultLogDir            = "~/.local/share/winnow/logs"
	defaultPhotosLibrary     = "~/Pictures/Photos Library.photoslibrary"
	defaultMinSizeMB         = 10
	defaultTopLargest        = 20
	defaultImportTimeout     = 60
	defaultSettleSeconds     = 5
	defaultBatchSize         = 50
	defaultBatchPauseSeconds = 2
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

func defaultExtensions() []string {
	return []string{
		".mov", ".mp4", ".m4v", ".avi",
		".jpg", ".jpeg", ".png", ".gif", ".heic", ".heif",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AttachmentsDir: defaultAttachmentsDir,
			ReviewDir:      defaultReviewDir,
			StateDir:       defaultStateDir,
			LogDir:         defaultLogDir,
			PhotosLibrary:  defaultPhotosLibrary,
		},
		Scan: Scan{
			Extensions: defaultExtensions(),
			MinSizeMB:  defaultMinSizeMB,
			TopLargest: defaultTopLargest,
		},
		Import: Import{
			TimeoutSeconds:    defaultImportTimeout,
			SettleSeconds:     defaultSettleSeconds,
			Verify:            true,
			BatchSize:         defaultBatchSize,
			BatchPauseSeconds: defaultBatchPauseSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
