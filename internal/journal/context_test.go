package journal

import (
	"fmt"
	"strings"
	"testing"

	dm "stajdefteri/internal/models/domain_models"
)

func historyDays() []dm.DayEntry {
	days := make([]dm.DayEntry, 0, 10)
	for i := 1; i <= 10; i++ {
		days = append(days, dm.DayEntry{
			DayNumber:     i,
			Date:          fmt.Sprintf("%02d.09.2025", i),
			Category:      dm.CategoryProduction,
			SpecificTopic: "Konu",
			Content:       "İçerik",
			IsGenerated:   true,
			IsSaved:       i%2 == 1,
		})
	}
	return days
}

func TestSelectContextOnlySavedEarlierDays(t *testing.T) {
	days := historyDays()
	for target := 1; target <= 11; target++ {
		for _, d := range SelectContext(days, target, 100) {
			if !d.IsSaved || d.DayNumber >= target {
				t.Fatalf("target %d: day %d leaked into context (saved=%v)", target, d.DayNumber, d.IsSaved)
			}
		}
	}
	got := SelectContext(days, 8, 100)
	want := []int{1, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("len: want=%d got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i].DayNumber != want[i] {
			t.Fatalf("order at %d: want=%d got=%d", i, want[i], got[i].DayNumber)
		}
	}
}

func TestSelectContextWindowKeepsNewest(t *testing.T) {
	got := SelectContext(historyDays(), 11, 2)
	if len(got) != 2 || got[0].DayNumber != 7 || got[1].DayNumber != 9 {
		t.Fatalf("window: got=%v", got)
	}
}

func TestBuildRequestIncludesDayAndHistory(t *testing.T) {
	days := historyDays()
	days[7].SpecificTopic = "Kompanzasyon Panosu İncelemesi"
	days[7].CustomDirective = "ölçüm değerlerine değin"
	days[7].ImageURL = "https://example.com/a.jpg"
	days[7].ImageCaption = "Kompanzasyon panosu"
	days[5].Content = "TASLAK METIN"
	days[5].IsSaved = false

	req := BuildRequest(dm.StudentProfile{Name: "Ayşe Yılmaz", Company: "ABC Elektrik"}, days[7], days, 5)

	if req.System != SystemInstruction || !strings.Contains(req.System, TitleMarker) {
		t.Fatalf("system instruction missing marker")
	}
	for _, want := range []string{"Ayşe Yılmaz", "ABC Elektrik", "8. gün", "Üretim/Tasarım",
		"Kompanzasyon Panosu İncelemesi", "ölçüm değerlerine değin", "Kompanzasyon panosu", "7. gün"} {
		if !strings.Contains(req.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, req.User)
		}
	}
	if strings.Contains(req.User, "TASLAK METIN") {
		t.Fatalf("unsaved draft leaked into prompt")
	}
	if strings.Contains(req.User, "Bölüm:") {
		t.Fatalf("empty profile fields must be omitted")
	}
}
