// Package storage handles all file system operations for deck documents.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/deckfold/deckfold/internal/errors"
	"github.com/deckfold/deckfold/internal/models"
	"gopkg.in/yaml.v3"
)

// Storage handles deck files under a library root directory.
type Storage struct {
	rootPath string
}

// NewStorage creates a new storage instance. An empty rootPath falls
// back to ~/.deckfold.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".deckfold")
	}
	return &Storage{rootPath: rootPath}, nil
}

// InitLibrary creates the directory structure for a deck library.
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, "decks"),
		filepath.Join(s.rootPath, "exports"),
		filepath.Join(s.rootPath, ".deckfold"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// LoadDeck loads a deck from a markdown file with optional YAML
// frontmatter. The returned deck carries only metadata and raw source;
// compiling it into slides is the compiler's job.
func (s *Storage) LoadDeck(path string) (*models.Deck, error) {
	fullPath := path
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			fullPath = filepath.Join(s.rootPath, path)
		}
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeFileNotFound, "deck file not found").WithDetails(fullPath)
		}
		return nil, apperrors.StorageError("read deck file", err)
	}

	deck, err := parseDeckFile(content)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse deck").WithDetails(fullPath)
	}

	deck.FilePath = fullPath
	deck.ContentHash = calculateHash(content)
	if deck.Title == "" {
		deck.Title = strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))
	}
	return deck, nil
}

// SaveDeck saves a deck's metadata and source back to its file.
func (s *Storage) SaveDeck(deck *models.Deck) error {
	fullPath := deck.FilePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(s.rootPath, fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.StorageError("create deck directory", err)
	}
	content, err := serializeDeck(deck)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to serialize deck")
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return apperrors.StorageError("write deck file", err)
	}
	return nil
}

// ListDecks returns every deck under the library's decks directory.
func (s *Storage) ListDecks() ([]*models.Deck, error) {
	decksDir := filepath.Join(s.rootPath, "decks")
	if _, err := os.Stat(decksDir); os.IsNotExist(err) {
		return []*models.Deck{}, nil
	}

	var decks []*models.Deck
	err := filepath.Walk(decksDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		deck, err := s.LoadDeck(path)
		if err != nil {
			// Skip unreadable decks but keep walking.
			fmt.Fprintf(os.Stderr, "Warning: failed to load deck %s: %v\n", path, err)
			return nil
		}
		decks = append(decks, deck)
		return nil
	})
	return decks, err
}

// ModTime returns the file modification time for change detection.
func (s *Storage) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

// parseDeckFile splits YAML frontmatter from the markdown body. A file
// without frontmatter is all body. A frontmatter fence is a `---` line
// at the very start of the file; the slide separator inside the body
// uses the same token, so only the leading position distinguishes them.
func parseDeckFile(content []byte) (*models.Deck, error) {
	deck := &models.Deck{}

	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		deck.Source = string(content)
		return deck, nil
	}

	rest := content[bytes.IndexByte(content, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		// Unterminated frontmatter; treat the whole file as body.
		deck.Source = string(content)
		return deck, nil
	}
	front := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	if err := yaml.Unmarshal(front, deck); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	deck.Source = string(body)
	return deck, nil
}

// serializeDeck renders frontmatter plus source.
func serializeDeck(deck *models.Deck) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(deck); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(deck.Source)
	return buf.Bytes(), nil
}

// calculateHash generates a SHA256 hash of the content
func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
