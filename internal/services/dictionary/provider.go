package dictionary

import (
	"sync"

	"golang.org/x/text/language"

	"github.com/mcoot/lettergame/internal/model"
)

// Provider exposes a language's tiles and dictionary
type Provider interface {
	Language() model.Language
	IsWordInLanguage(word string) bool
	TileDefinitions() []model.TileDefinition
	WordTrie() *WordTrie
}

// LanguageProvider is the Provider for one built-in language
type LanguageProvider struct {
	language model.Language
	tag      language.Tag
	defs     []model.TileDefinition

	mu   sync.RWMutex
	trie *WordTrie
}

var _ Provider = (*LanguageProvider)(nil)

// NewLanguageProvider creates a provider with an empty dictionary
func NewLanguageProvider(lang model.Language, tag language.Tag, defs []model.TileDefinition) *LanguageProvider {
	return &LanguageProvider{
		language: lang,
		tag:      tag,
		defs:     defs,
		trie:     NewWordTrie(tag),
	}
}

// Language returns the provider's language
func (p *LanguageProvider) Language() model.Language {
	return p.language
}

// IsWordInLanguage checks word against the loaded dictionary
func (p *LanguageProvider) IsWordInLanguage(word string) bool {
	return p.WordTrie().IsValid(word)
}

// TileDefinitions returns the tile table; callers must not modify it
func (p *LanguageProvider) TileDefinitions() []model.TileDefinition {
	return p.defs
}

// WordTrie returns the current dictionary
func (p *LanguageProvider) WordTrie() *WordTrie {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trie
}

// SetWords replaces the dictionary
func (p *LanguageProvider) SetWords(words []string) {
	trie := NewWordTrie(p.tag)
	for _, w := range words {
		trie.Insert(w)
	}

	p.mu.Lock()
	p.trie = trie
	p.mu.Unlock()
}

// Alphabet returns the lower-cased letters of the tile table, blank excluded
func Alphabet(p Provider) []rune {
	trie := p.WordTrie()
	var letters []rune
	for _, d := range p.TileDefinitions() {
		if d.IsBlank() {
			continue
		}
		for _, r := range trie.Normalize(d.Text) {
			letters = append(letters, r)
		}
	}
	return letters
}
