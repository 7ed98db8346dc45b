package photos

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"winnow/internal/catalog"
	"winnow/internal/config"
	"winnow/internal/logging"
	"winnow/internal/services"
)

// Index resolves filename-plus-size lookups against the Photos library
// database. When the database is absent or unreadable the index degrades
// instead of failing: Available reports false and every lookup misses, so a
// scan still completes on machines without a Photos library.
type Index struct {
	mu     sync.Mutex
	dbPath string
	db     *sql.DB
	logger *slog.Logger
}

// OpenIndex opens the Photos database read-only. A missing database is not
// an error; the returned index simply reports itself unavailable.
func OpenIndex(cfg *config.Config, logger *slog.Logger) (*Index, error) {
	idx := &Index{
		dbPath: cfg.PhotosDatabasePath(),
		logger: logging.NewComponentLogger(logger, "photos"),
	}
	if err := idx.open(); err != nil {
		return nil, err
	}
	if idx.db == nil {
		idx.logger.Warn("photos database not found, duplicate checks disabled",
			logging.String("path", idx.dbPath),
		)
	}
	return idx, nil
}

func (i *Index) open() error {
	if _, err := os.Stat(i.dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return services.Wrap(services.ErrPermission, "photos", "stat database", i.dbPath, err)
	}
	// Photos keeps the database open with WAL; immutable=1 lets us read a
	// consistent snapshot without taking any locks the app would notice.
	// The URI form survives spaces in "Photos Library.photoslibrary".
	uri := url.URL{Scheme: "file", Path: i.dbPath, RawQuery: "mode=ro&immutable=1"}
	db, err := sql.Open("sqlite", uri.String())
	if err != nil {
		return services.Wrap(services.ErrTransient, "photos", "open database", i.dbPath, err)
	}
	i.db = db
	return nil
}

// Available reports whether the library database was found and opened.
func (i *Index) Available() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db != nil
}

// Path returns the database path the index was configured with.
func (i *Index) Path() string {
	return i.dbPath
}

// Close releases the database handle.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	return err
}

// Refresh reopens the database so lookups see assets added after the index
// was first opened. The immutable snapshot never observes new rows, so the
// post-import verification path must refresh before re-querying.
func (i *Index) Refresh() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			return err
		}
		i.db = nil
	}
	return i.open()
}

const lookupQuery = `
SELECT a.Z_PK, b.ZORIGINALFILENAME, b.ZORIGINALFILESIZE
FROM ZASSET a
JOIN ZADDITIONALASSETATTRIBUTES b ON a.Z_PK = b.ZASSET
WHERE b.ZORIGINALFILENAME LIKE ? AND b.ZORIGINALFILESIZE = ?`

// Lookup reports whether an asset with a matching original filename and the
// exact original byte size exists in the library. On a hit it returns details
// of the first match plus the total match count; on a miss or when the index
// is unavailable it returns nil.
func (i *Index) Lookup(ctx context.Context, filename string, size int64) (*catalog.MatchInfo, error) {
	i.mu.Lock()
	db := i.db
	i.mu.Unlock()
	if db == nil {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, lookupQuery, "%"+filename+"%", size)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "photos", "lookup", filename, err)
	}
	defer rows.Close()

	var match *catalog.MatchInfo
	count := 0
	for rows.Next() {
		var (
			assetID   int64
			origName  sql.NullString
			origBytes sql.NullInt64
		)
		if err := rows.Scan(&assetID, &origName, &origBytes); err != nil {
			return nil, services.Wrap(services.ErrTransient, "photos", "lookup scan", filename, err)
		}
		count++
		if match == nil {
			match = &catalog.MatchInfo{
				AssetID:  assetID,
				Filename: origName.String,
				Size:     origBytes.Int64,
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "photos", "lookup rows", filename, err)
	}
	if match == nil {
		return nil, nil
	}
	match.Matches = count
	return match, nil
}

// Annotate runs lookups for every record and fills in the library-match
// fields. Records whose lookup fails keep InLibrary false; only the error of
// a cancelled context aborts the pass.
func (i *Index) Annotate(ctx context.Context, records []*catalog.Record) error {
	hits := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		match, err := i.Lookup(ctx, rec.Name, rec.Size)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			i.logger.Warn("lookup failed, treating as not in library",
				logging.String("name", rec.Name),
				logging.Error(err),
			)
			continue
		}
		rec.InLibrary = match != nil
		rec.Match = match
		if match != nil {
			hits++
		}
	}
	i.logger.Info("library check complete",
		logging.Int("checked", len(records)),
		logging.Int("in_library", hits),
		logging.Bool("index_available", i.Available()),
	)
	return nil
}
