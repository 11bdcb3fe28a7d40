package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

const (
	minQueryWords = 3
	maxQueryWords = 6
)

const queryInstruction = `You turn Turkish internship topics into English image search queries.
Reply with a single line of 3 to 6 English technical words. No quotes, no punctuation, no explanation.`

// QueryGenerator asks the model for an English search query and falls back
// to a dictionary translation when the model is unavailable.
type QueryGenerator struct {
	ai          utils.GenerativeClientInterface
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	log         *logger.Logger
}

func NewQueryGenerator(ai utils.GenerativeClientInterface, log *logger.Logger) *QueryGenerator {
	return &QueryGenerator{
		ai:          ai,
		maxAttempts: 3,
		backoff:     time.Second,
		sleep:       sleepCtx,
		log:         log.With("component", "QueryGenerator"),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Query never fails; the worst case is the rule based fallback.
func (g *QueryGenerator) Query(ctx context.Context, day dm.DayEntry) string {
	prompt := fmt.Sprintf("Topic: %s\nCategory: %s\nPicture type: %s",
		day.SpecificTopic, day.Category.Label(), guideHint(day.VisualGuide))

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		raw, err := g.ai.Generate(ctx, utils.GenerateRequest{
			System:      queryInstruction,
			Prompt:      prompt,
			Temperature: 0.2,
		})
		if err == nil {
			if q := normalizeQuery(raw); q != "" {
				return q
			}
			g.log.Debug("model query unusable", "raw", raw)
			break
		}
		if !utils.IsTransientAIError(err) {
			g.log.Warn("query generation failed", "attempt", attempt, "error", err)
			break
		}
		g.log.Warn("query generation transient error", "attempt", attempt, "max_attempts", g.maxAttempts, "error", err)
		if attempt == g.maxAttempts {
			break
		}
		if err := g.sleep(ctx, time.Duration(attempt)*g.backoff); err != nil {
			break
		}
	}
	return FallbackQuery(day.SpecificTopic, day.VisualGuide)
}

// normalizeQuery keeps the first line, strips punctuation and rejects answers
// outside the expected word count.
func normalizeQuery(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return ' '
	}, utils.FoldASCII(line))
	words := strings.Fields(line)
	if len(words) < minQueryWords {
		return ""
	}
	if len(words) > maxQueryWords {
		words = words[:maxQueryWords]
	}
	return strings.ToLower(strings.Join(words, " "))
}

// Turkish stems of the electrical vocabulary used in the topic pools.
var topicDictionary = []struct{ stem, en string }{
	{"trafo", "transformer"},
	{"transformator", "transformer"},
	{"pano", "switchboard"},
	{"kablo", "cable"},
	{"topraklama", "grounding"},
	{"aydinlatma", "lighting"},
	{"sigorta", "fuse"},
	{"salter", "circuit breaker"},
	{"kesici", "circuit breaker"},
	{"role", "relay"},
	{"motor", "motor"},
	{"jenerator", "generator"},
	{"kompanzasyon", "power factor correction"},
	{"olcum", "measurement"},
	{"sayac", "energy meter"},
	{"tesisat", "electrical installation"},
	{"proje", "electrical project"},
	{"cizim", "drawing"},
	{"sema", "schematic"},
	{"plc", "plc"},
	{"otomasyon", "automation"},
	{"sensor", "sensor"},
	{"inverter", "inverter"},
	{"gunes", "solar"},
	{"panel", "panel"},
	{"enerji", "energy"},
	{"bakim", "maintenance"},
	{"ariza", "fault"},
	{"guvenlik", "safety"},
	{"is sagligi", "occupational safety"},
	{"maliyet", "cost estimate"},
	{"kesif", "bill of quantities"},
	{"planlama", "planning"},
	{"toplanti", "meeting"},
	{"rapor", "report"},
	{"kalite", "quality control"},
	{"test", "test"},
	{"devreye alma", "commissioning"},
	{"ups", "ups"},
	{"yangin", "fire alarm"},
	{"zayif akim", "low voltage systems"},
	{"orta gerilim", "medium voltage"},
	{"alcak gerilim", "low voltage"},
	{"yuksek gerilim", "high voltage"},
}

func guideHint(g dm.VisualGuide) string {
	switch g {
	case dm.VisualTechnicalDrawing:
		return "technical drawing"
	case dm.VisualDiagramTable:
		return "diagram"
	default:
		return "site photo"
	}
}

// FallbackQuery translates known Turkish stems and appends a hint for the
// picture type. The result always has between 3 and 6 words.
func FallbackQuery(topic string, guide dm.VisualGuide) string {
	folded := strings.ToLower(utils.FoldASCII(topic))
	hint := strings.Fields(guideHint(guide))
	budget := maxQueryWords - len(hint)

	var words []string
	seen := map[string]bool{}
	for _, e := range topicDictionary {
		if !strings.Contains(folded, e.stem) || seen[e.en] {
			continue
		}
		phrase := strings.Fields(e.en)
		if len(words)+len(phrase) > budget {
			continue
		}
		seen[e.en] = true
		words = append(words, phrase...)
	}
	if len(words) == 0 {
		words = []string{"electrical", "engineering"}
	}
	words = append(words, hint...)
	if len(words) < minQueryWords {
		words = append([]string{"electrical"}, words...)
	}
	return strings.Join(words, " ")
}
