package dictionary

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TrieNode is one prefix of the dictionary
type TrieNode struct {
	Children map[rune]*TrieNode
	IsEnd    bool
}

func newTrieNode() *TrieNode {
	return &TrieNode{Children: make(map[rune]*TrieNode)}
}

// WordTrie is a prefix tree over lower-cased words.
// It is built once and then only read, so concurrent lookups need no locking.
type WordTrie struct {
	root  *TrieNode
	tag   language.Tag
	count int
}

// NewWordTrie creates an empty trie that folds case using the rules of tag
func NewWordTrie(tag language.Tag) *WordTrie {
	return &WordTrie{root: newTrieNode(), tag: tag}
}

// Root returns the empty-prefix node
func (t *WordTrie) Root() *TrieNode {
	return t.root
}

// Normalize lower-cases word with the trie's language rules
func (t *WordTrie) Normalize(word string) string {
	// Casers carry state; a fresh one per call keeps lookups goroutine safe
	return cases.Lower(t.tag).String(word)
}

// Insert adds word to the trie
func (t *WordTrie) Insert(word string) {
	node := t.root
	for _, r := range t.Normalize(word) {
		next, ok := node.Children[r]
		if !ok {
			next = newTrieNode()
			node.Children[r] = next
		}
		node = next
	}
	if !node.IsEnd {
		node.IsEnd = true
		t.count++
	}
}

// IsValid reports whether word is a complete dictionary word
func (t *WordTrie) IsValid(word string) bool {
	if word == "" {
		return false
	}
	node := t.root
	for _, r := range t.Normalize(word) {
		next, ok := node.Children[r]
		if !ok {
			return false
		}
		node = next
	}
	return node.IsEnd
}

// Len returns the number of distinct words
func (t *WordTrie) Len() int {
	return t.count
}
