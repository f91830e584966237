package factory

import (
	"time"

	"github.com/mcoot/lettergame/internal/dependencies/mocks"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/services/auth"
	"github.com/mcoot/lettergame/internal/storage/memory"
	"github.com/mcoot/lettergame/internal/testutil"
)

// TestLobbyCount is the number of lobbies in a TestApp
const TestLobbyCount = 2

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.Secret = []byte("test-secret")

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, TestLobbyCount, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small English dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// 2-letter words
		"aa", "ab", "ad", "ae", "ag", "ah", "ai", "al", "am", "an", "ar", "as", "at", "aw", "ax", "ay",
		"ba", "be", "bi", "bo", "by", "da", "de", "do", "ed", "ef", "eh", "el", "em", "en", "er", "es",
		"ex", "fa", "fe", "go", "ha", "he", "hi", "hm", "ho", "id", "if", "in", "is", "it", "jo", "ka",
		"ki", "la", "li", "lo", "ma", "me", "mi", "mo", "mu", "my", "na", "ne", "no", "nu", "od", "oe",
		"of", "oh", "oi", "om", "on", "op", "or", "os", "ow", "ox", "oy", "pa", "pe", "pi", "qi", "re",
		"sh", "si", "so", "ta", "ti", "to", "uh", "um", "un", "up", "us", "ut", "we", "wo", "xi", "xu",
		"ya", "ye", "yo", "za",
		// 3-letter words
		"ace", "act", "add", "age", "ago", "aid", "aim", "air", "all", "and", "ant", "any", "ape", "arc",
		"are", "ark", "arm", "art", "ash", "ask", "ate", "bad", "bag", "ban", "bar", "bat", "bed", "bee",
		"bet", "big", "bit", "box", "boy", "bug", "bus", "but", "buy", "cab", "can", "cap", "car", "cat",
		"cop", "cow", "cry", "cup", "cut", "day", "den", "dig", "dog", "dot", "dry", "due", "ear", "eat",
		"egg", "end", "era", "eve", "eye", "fan", "far", "fat", "fed", "few", "fig", "fin", "fit", "fix",
		"fly", "fog", "for", "fox", "fun", "gap", "gas", "get", "got", "gum", "gun", "had", "ham", "has",
		"hat", "hen", "her", "hid", "him", "hip", "his", "hit", "hot", "how", "ice", "ink", "inn", "ion",
		"its", "jam", "jar", "jet", "job", "joy", "key", "kid", "kit", "lap", "law", "lay", "led", "leg",
		"let", "lid", "lie", "lip", "lit", "log", "lot", "low", "mad", "man", "map", "mat", "men", "met",
		"mix", "mud", "mug", "nap", "net", "new", "nod", "not", "now", "nut", "oak", "odd", "oil", "old",
		"one", "ore", "our", "out", "owl", "own", "pad", "pan", "pat", "pay", "pea", "pen", "pet", "pie",
		"pig", "pin", "pit", "pot", "put", "ran", "rat", "raw", "ray", "red", "rib", "rid", "rim", "rip",
		"rod", "rot", "row", "rub", "rug", "run", "sad", "sat", "saw", "say", "sea", "set", "she", "sin",
		"sip", "sir", "sit", "six", "sky", "son", "sun", "tab", "tag", "tan", "tap", "tar", "tax", "tea",
		"ten", "the", "tie", "tin", "tip", "toe", "ton", "top", "toy", "try", "tub", "two", "use", "van",
		"vat", "vet", "war", "was", "wax", "way", "web", "wed", "wet", "who", "why", "wig", "win", "wit",
		"won", "yes", "yet", "you", "zap", "zip", "zoo",
		// 4-letter words
		"able", "also", "area", "back", "ball", "bank", "base", "bear", "beat", "bird", "blue", "boat",
		"body", "book", "card", "care", "case", "cats", "city", "come", "cost", "dark", "date", "deal",
		"door", "down", "draw", "each", "east", "easy", "edge", "face", "fact", "fall", "farm", "fast",
		"fire", "fish", "five", "food", "form", "four", "free", "game", "gate", "gold", "good", "hand",
		"hard", "heat", "help", "here", "hill", "home", "hope", "idea", "iron", "just", "king", "lake",
		"land", "last", "late", "lead", "life", "line", "list", "lone", "long", "love", "main", "mare",
		"name", "near", "neat", "nest", "note", "once", "open", "over", "pane", "part", "rain", "rate",
		"read", "rest", "ride", "road", "rock", "role", "rose", "said", "sale", "same", "seat", "sent",
		"ship", "side", "sign", "star", "stop", "tale", "tear", "tide", "tile", "time", "tone", "tree",
		"true", "word", "year", "zero",
	}
	return t.DictionaryService.LoadWords(model.LanguageEnglish, words)
}
