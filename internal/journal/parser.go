package journal

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stajdefteri/pkg/utils"
)

const (
	TitleMarker   = "ÇALIŞMA RAPORU:"
	CaptionMarker = "GÖRSEL AÇIKLAMASI:"
	DefaultTitle  = "Günlük Çalışma"
)

var (
	titleKey   = markerKey(strings.TrimSuffix(TitleMarker, ":"))
	captionKey = markerKey(strings.TrimSuffix(CaptionMarker, ":"))

	tagPattern       = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	blockEndPattern  = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</h[1-6]>`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	decorationCutset = "*#_>` \t"
)

// ParsedContent is the generated text split into its parts.
type ParsedContent struct {
	Body          string
	WorkTitle     string
	VisualCaption *string
	// HasTitle is false when the title fell back to DefaultTitle.
	HasTitle bool
}

// ParseResponse splits model output into title, body and optional caption.
// Missing markers are not an error.
func ParseResponse(raw string) ParsedContent {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	if tagPattern.MatchString(text) {
		text = flattenHTML(text)
	}

	lines := strings.Split(text, "\n")
	out := ParsedContent{WorkTitle: DefaultTitle}

	body := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if before, rest, found := cutCaption(lines[i]); found {
			if before = strings.TrimRight(before, decorationCutset); before != "" {
				body = append(body, before)
			}
			caption := strings.TrimSpace(strings.Join(append([]string{rest}, lines[i+1:]...), "\n"))
			caption = strings.Trim(caption, decorationCutset)
			if caption != "" {
				out.VisualCaption = &caption
			}
			break
		}
		key, rest, ok := splitMarker(lines[i])
		if ok && key == titleKey && !out.HasTitle {
			if title := strings.Trim(rest, decorationCutset); title != "" {
				out.WorkTitle = title
				out.HasTitle = true
			}
			continue
		}
		body = append(body, strings.TrimRight(lines[i], " \t"))
	}

	out.Body = cleanBody(strings.Join(body, "\n"))
	return out
}

func cleanBody(s string) string {
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// splitMarker reports whether line starts with "<marker>:" and returns the
// normalized marker key plus the remainder after the colon.
func splitMarker(line string) (key, rest string, ok bool) {
	head, tail, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	head = strings.Trim(head, decorationCutset)
	if head == "" || len([]rune(head)) > 40 {
		return "", "", false
	}
	return markerKey(head), tail, true
}

// cutCaption finds the caption marker anywhere in line. It returns the text
// before the marker and the text after its colon.
func cutCaption(line string) (before, rest string, found bool) {
	for off := 0; off < len(line); {
		i := strings.IndexByte(line[off:], ':')
		if i < 0 {
			return "", "", false
		}
		colon := off + i
		head := strings.TrimRight(line[:colon], decorationCutset)
		words := strings.Fields(head)
		if n := len(words); n >= 2 {
			first := strings.TrimLeft(words[n-2], decorationCutset)
			if markerKey(first+" "+words[n-1]) == captionKey {
				last := strings.LastIndex(head, words[n-1])
				start := strings.LastIndex(head[:last], words[n-2])
				return line[:start], line[colon+1:], true
			}
		}
		off = colon + 1
	}
	return "", "", false
}

// markerKey folds case, Turkish dotted and dotless I and whitespace runs so
// marker variants compare equal.
func markerKey(s string) string {
	return strings.ToUpper(utils.CollapseSpaces(utils.FoldASCII(s)))
}

func flattenHTML(s string) string {
	s = blockEndPattern.ReplaceAllString(s, "$0\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return tagPattern.ReplaceAllString(s, "")
	}
	return doc.Text()
}
