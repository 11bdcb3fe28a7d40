package planner

import (
	"strings"
	"unicode"

	dm "stajdefteri/internal/models/domain_models"
)

type guideRule struct {
	guide    dm.VisualGuide
	keywords []string
}

// Rules are checked in order; the first rule with a matching keyword wins.
var guideRules = []guideRule{
	{dm.VisualTechnicalDrawing, []string{"çizim", "şema", "autocad", "kesit", "görünüş", "devre", "tasarım", "yerleşim"}},
	{dm.VisualDiagramTable, []string{"tablo", "rapor", "analiz", "maliyet", "bütçe", "program", "planlama", "plan ", "diyagram", "süreç", "form", "liste", "metraj", "hakediş", "karşılaştırma", "hesab", "hesap"}},
}

// ClassifyTopic maps a topic to the kind of picture that documents it.
// Anything not recognized as a drawing or a table is treated as a field photo.
func ClassifyTopic(topic string) dm.VisualGuide {
	norm := strings.ToLowerSpecial(unicode.TurkishCase, topic) + " "
	for _, rule := range guideRules {
		for _, kw := range rule.keywords {
			if strings.Contains(norm, kw) {
				return rule.guide
			}
		}
	}
	return dm.VisualFieldPhoto
}
