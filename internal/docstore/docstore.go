// Package docstore indexes API documentation for similarity retrieval.
//
// Markdown files (one per integration) are chunked, embedded via an
// external embedding provider and persisted in SQLite. Search embeds
// the query and ranks stored chunks by cosine similarity, optionally
// filtered to a single integration. A content hash of the doc tree
// detects staleness so unchanged corpora are not re-embedded.
package docstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Embedder computes embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Store is the SQLite-backed documentation index.
type Store struct {
	db *sql.DB
}

// Chunk is one retrieved documentation section.
type Chunk struct {
	Integration string
	FileName    string
	Content     string
	Score       float64
}

// IndexReport summarizes one indexing pass.
type IndexReport struct {
	Files   int
	Chunks  int
	Skipped bool // corpus unchanged, nothing re-embedded
}

// Open creates or opens the index database at the given path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to index database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Index loads all markdown files under docsDir, chunks and embeds them,
// and replaces the stored index. The file stem is recorded as the
// integration name (slack.md -> "slack"). When the corpus hash matches
// the stored hash and force is false, the pass is skipped.
func (s *Store) Index(ctx context.Context, docsDir string, embedder Embedder, force bool) (IndexReport, error) {
	var report IndexReport

	files, err := listMarkdownFiles(docsDir)
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		return report, fmt.Errorf("no markdown files found in %s", docsDir)
	}

	hash, err := corpusHash(files)
	if err != nil {
		return report, err
	}

	if !force {
		stored, err := s.storedHash(ctx)
		if err != nil {
			return report, err
		}
		if stored == hash {
			report.Files = len(files)
			report.Skipped = true
			return report, nil
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return report, fmt.Errorf("failed to clear index: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return report, fmt.Errorf("failed to read %s: %w", file, err)
		}

		integration := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		chunks := splitMarkdown(string(content), defaultChunkSize, defaultOverlap)

		for i, chunk := range chunks {
			vector, err := embedder.Embed(ctx, chunk)
			if err != nil {
				return report, fmt.Errorf("failed to embed chunk %d of %s: %w", i, file, err)
			}

			// Full content hash plus position: distinct chunks never
			// share a key, so none are silently replaced.
			chunkID := fmt.Sprintf("%s_%d_%x", integration, i, sha256.Sum256([]byte(chunk)))
			_, err = tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO chunks (chunk_id, integration, file_name, chunk_index, content, embedding)
				VALUES (?, ?, ?, ?, ?, ?)`,
				chunkID, integration, filepath.Base(file), i, chunk, serializeVector(vector))
			if err != nil {
				return report, fmt.Errorf("failed to store chunk: %w", err)
			}
			report.Chunks++
		}
		report.Files++
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO corpus_meta (key, value) VALUES ('docs_hash', ?)`, hash); err != nil {
		return report, fmt.Errorf("failed to store corpus hash: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("failed to commit index: %w", err)
	}
	return report, nil
}

// Search returns the k most similar chunks to the query, optionally
// restricted to one integration.
func (s *Store) Search(ctx context.Context, embedder Embedder, query string, k int, integration string) ([]Chunk, error) {
	if k <= 0 {
		k = 4
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	stmt := "SELECT integration, file_name, content, embedding FROM chunks"
	var args []any
	if integration != "" {
		stmt += " WHERE integration = ?"
		args = append(args, integration)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var results []Chunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.Integration, &c.FileName, &c.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		vector, err := deserializeVector(blob)
		if err != nil {
			continue // corrupt row, skip rather than fail retrieval
		}
		c.Score = cosineSimilarity(queryVec, vector)
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Documentation retrieves the top chunks for a query and joins them
// into a single documentation string, deduplicating near-identical
// chunks by content prefix.
func (s *Store) Documentation(ctx context.Context, embedder Embedder, query string, k int, integration string) (string, error) {
	chunks, err := s.Search(ctx, embedder, query, k, integration)
	if err != nil {
		return "", err
	}

	seen := make(map[[32]byte]struct{}, len(chunks))
	var sections []string
	for _, c := range chunks {
		prefix := c.Content
		if len(prefix) > 100 {
			prefix = prefix[:100]
		}
		key := sha256.Sum256([]byte(prefix))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sections = append(sections, c.Content)
	}

	return strings.Join(sections, "\n\n---\n\n"), nil
}

func (s *Store) storedHash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM corpus_meta WHERE key = 'docs_hash'").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read corpus hash: %w", err)
	}
	return hash, nil
}

func listMarkdownFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("docs directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".md" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan docs directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// corpusHash hashes all file contents in path order.
func corpusHash(files []string) (string, error) {
	h := sha256.New()
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		h.Write([]byte(filepath.Base(file)))
		h.Write([]byte{0})
		h.Write(content)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12], nil
}

func serializeVector(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func deserializeVector(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 8", len(b))
	}
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
