package ingredient

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// maskByte 取代已匹配的關鍵字，避免泛用關鍵字在其中再次命中
const maskByte = 0x00

// shortKeywordRunes 不超過此長度的純 ASCII 關鍵字（mg、ca、b12、vita…）需要邊界
const shortKeywordRunes = 4

// Entry 一個標準成分及其所有寫法。
// Excludes 是包含關鍵字但指其他東西的詞（마카다미아），會先被遮蔽且不產生成分。
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Keywords  []string `yaml:"keywords"`
	Excludes  []string `yaml:"excludes"`
}

type boundary int

const (
	boundNone boundary = iota
	// boundASCII 短英文關鍵字：左右不可緊鄰英數字
	boundASCII
	// boundHangul 單一音節韓文關鍵字：右側不可緊鄰其他音節（철 ≠ 철갑상어）
	boundHangul
)

type keyword struct {
	text      string
	canonical string // 空字串代表排除詞
	order     int
	bound     boundary
}

// Lexicon 不可變的關鍵字表，啟動時建立一次後只讀
type Lexicon struct {
	keywords   []keyword
	byText     map[string]string
	canonicals []string
}

// NewLexicon 建立關鍵字表。
// 關鍵字依字元長度由長到短排序，同長度依宣告順序。
func NewLexicon(entries []Entry) (*Lexicon, error) {
	l := &Lexicon{byText: make(map[string]string)}
	seenCanonical := make(map[string]bool)

	for _, entry := range entries {
		canonical := strings.TrimSpace(entry.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("lexicon entry without canonical name")
		}
		if !seenCanonical[canonical] {
			seenCanonical[canonical] = true
			l.canonicals = append(l.canonicals, canonical)
		}

		for _, raw := range entry.Keywords {
			if err := l.add(normalize(raw), canonical); err != nil {
				return nil, err
			}
		}
		for _, raw := range entry.Excludes {
			if err := l.add(normalize(raw), ""); err != nil {
				return nil, err
			}
		}
	}

	if l.canonicalKeywords() == 0 {
		return nil, fmt.Errorf("lexicon has no keywords")
	}

	sort.SliceStable(l.keywords, func(i, j int) bool {
		li := utf8.RuneCountInString(l.keywords[i].text)
		lj := utf8.RuneCountInString(l.keywords[j].text)
		if li != lj {
			return li > lj
		}
		return l.keywords[i].order < l.keywords[j].order
	})

	return l, nil
}

// DefaultLexicon 以內建關鍵字表建立
func DefaultLexicon() *Lexicon {
	l, err := NewLexicon(DefaultEntries())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in lexicon: %v", err))
	}
	return l
}

// LoadLexicon 內建關鍵字表加上額外檔案（可為空路徑）
func LoadLexicon(extraPath string) (*Lexicon, error) {
	entries := DefaultEntries()
	if extraPath != "" {
		extra, err := LoadLexiconFile(extraPath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, extra...)
	}
	return NewLexicon(entries)
}

// LoadLexiconFile 從 YAML 讀取額外關鍵字：
//
//	entries:
//	  - canonical: 밀크씨슬
//	    keywords: [milk thistle, 실리마린]
func LoadLexiconFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var file struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}
	return file.Entries, nil
}

func (l *Lexicon) add(text, canonical string) error {
	if text == "" {
		return nil
	}
	if existing, ok := l.byText[text]; ok {
		if existing != canonical {
			return fmt.Errorf("keyword %q maps to both %q and %q", text, existing, canonical)
		}
		return nil
	}
	l.byText[text] = canonical
	l.keywords = append(l.keywords, keyword{
		text:      text,
		canonical: canonical,
		order:     len(l.keywords),
		bound:     boundaryFor(text),
	})
	return nil
}

func (l *Lexicon) canonicalKeywords() int {
	n := 0
	for _, kw := range l.keywords {
		if kw.canonical != "" {
			n++
		}
	}
	return n
}

// Resolve 精確查詢單一關鍵字；排除詞不算
func (l *Lexicon) Resolve(text string) (string, bool) {
	canonical := l.byText[normalize(text)]
	return canonical, canonical != ""
}

// Len 關鍵字數量（不含排除詞）
func (l *Lexicon) Len() int {
	return l.canonicalKeywords()
}

// CanonicalCount 標準成分數量
func (l *Lexicon) CanonicalCount() int {
	return len(l.canonicals)
}

// normalize 小寫、NFC 正規化、合併連續空白
func normalize(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func boundaryFor(text string) boundary {
	if isShortASCII(text) {
		return boundASCII
	}
	if r, size := utf8.DecodeRuneInString(text); size == len(text) && isHangulSyllable(r) {
		return boundHangul
	}
	return boundNone
}

func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

func isShortASCII(s string) bool {
	if len(s) > shortKeywordRunes {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// atBoundary 短關鍵字左側不可緊鄰英數字（1000mg 不算鎂），右側不可緊鄰英文字母（vitamins 不算 vita）
func atBoundary(text string, start, end int) bool {
	if start > 0 {
		c := text[start-1]
		if isASCIILetter(c) || isASCIIDigit(c) {
			return false
		}
	}
	if end < len(text) && isASCIILetter(text[end]) {
		return false
	}
	return true
}

func (kw keyword) fits(text string, start, end int) bool {
	switch kw.bound {
	case boundASCII:
		return atBoundary(text, start, end)
	case boundHangul:
		next, _ := utf8.DecodeRuneInString(text[end:])
		return end == len(text) || !isHangulSyllable(next)
	default:
		return true
	}
}

// consume 找出關鍵字的所有有效出現位置並以 maskByte 取代
func consume(text string, kw keyword) (string, bool) {
	var b strings.Builder
	found := false
	pos := 0

	for pos < len(text) {
		i := strings.Index(text[pos:], kw.text)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(kw.text)

		if !kw.fits(text, start, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			b.WriteString(text[pos : start+size])
			pos = start + size
			continue
		}

		b.WriteString(text[pos:start])
		b.WriteByte(maskByte)
		pos = end
		found = true
	}

	if !found {
		return text, false
	}
	b.WriteString(text[pos:])
	return b.String(), true
}
