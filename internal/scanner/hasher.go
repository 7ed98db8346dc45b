package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"

	"winnow/internal/catalog"
	"winnow/internal/logging"
)

const hashBlockSize = 64 * 1024

// HashFile computes the lowercase hex SHA-256 digest of the file at path,
// streaming in fixed-size blocks so large videos never load into memory.
func HashFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashRecords fills in the digest for each record that does not have one yet.
// Files that cannot be read are skipped with a warning; the record keeps an
// empty digest and stays in the catalog.
func HashRecords(ctx context.Context, records []*catalog.Record, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "hasher")
	hashed := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if rec.Digest != "" {
			continue
		}
		digest, err := HashFile(ctx, rec.Path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("skipping unreadable file",
				logging.String("path", rec.Path),
				logging.Error(err),
			)
			continue
		}
		rec.Digest = digest
		hashed++
	}
	log.Info("hashing complete",
		logging.Int("hashed", hashed),
		logging.Int("total", len(records)),
	)
	return nil
}
