package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/language"

	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/storage"
)

// Service owns the language providers and loads their dictionaries
type Service struct {
	storage   storage.Storage
	logger    *slog.Logger
	providers map[model.Language]*LanguageProvider
}

// New creates a Service with the built-in languages and empty dictionaries
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "dictionary-service")),
		providers: map[model.Language]*LanguageProvider{
			model.LanguageEnglish: NewLanguageProvider(model.LanguageEnglish, language.English,
				buildDefinitions(model.LanguageEnglish, englishTiles)),
			model.LanguagePolish: NewLanguageProvider(model.LanguagePolish, language.Polish,
				buildDefinitions(model.LanguagePolish, polishTiles)),
		},
	}
}

// CreateProvider returns the provider for lang
func (s *Service) CreateProvider(lang model.Language) (Provider, error) {
	p, ok := s.providers[lang]
	if !ok {
		return nil, model.ErrUnsupportedLanguage
	}
	return p, nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(lang model.Language, words []string) error {
	p, ok := s.providers[lang]
	if !ok {
		return model.ErrUnsupportedLanguage
	}
	p.SetWords(words)
	s.logger.Info("dictionary loaded",
		slog.String("language", string(lang)),
		slog.Int("words", p.WordTrie().Len()),
	)
	return nil
}

// LoadFromStorage loads the words previously saved for lang
func (s *Service) LoadFromStorage(ctx context.Context, lang model.Language) error {
	words, err := s.storage.GetDictionaryWords(ctx, lang)
	if err != nil {
		return err
	}
	return s.LoadWords(lang, words)
}

// LoadFromFile loads a newline-separated word list, gzipped when path ends in .gz,
// and saves it to storage for other instances.
func (s *Service) LoadFromFile(ctx context.Context, lang model.Language, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("open gzip word list %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	words, err := ReadWords(r)
	if err != nil {
		return fmt.Errorf("read word list %s: %w", path, err)
	}

	if err := s.storage.SaveDictionaryWords(ctx, lang, words); err != nil {
		return err
	}

	return s.LoadWords(lang, words)
}

// LoadFromDir loads <language>.txt or <language>.txt.gz for every language found in dir.
// Languages with no file keep their current dictionary, falling back to storage.
func (s *Service) LoadFromDir(ctx context.Context, dir string) error {
	for lang := range s.providers {
		loaded := false
		for _, name := range []string{string(lang) + ".txt.gz", string(lang) + ".txt"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := s.LoadFromFile(ctx, lang, path); err != nil {
				return err
			}
			loaded = true
			break
		}
		if loaded {
			continue
		}
		if err := s.LoadFromStorage(ctx, lang); err != nil {
			s.logger.Warn("no dictionary available",
				slog.String("language", string(lang)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// WordCount returns the number of words loaded for lang
func (s *Service) WordCount(lang model.Language) int {
	p, ok := s.providers[lang]
	if !ok {
		return 0
	}
	return p.WordTrie().Len()
}

// ReadWords reads one word per line, skipping blanks and # comments
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ProviderFactory creates language providers
type ProviderFactory interface {
	CreateProvider(lang model.Language) (Provider, error)
}

// Interface check
type ServiceInterface interface {
	ProviderFactory
	LoadWords(lang model.Language, words []string) error
	LoadFromStorage(ctx context.Context, lang model.Language) error
	LoadFromFile(ctx context.Context, lang model.Language, path string) error
	LoadFromDir(ctx context.Context, dir string) error
	WordCount(lang model.Language) int
}

var _ ServiceInterface = (*Service)(nil)
