package journal

import (
	"fmt"
	"sort"
	"strings"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/utils"
)

const (
	DefaultContextWindow = 5
	contextBodyRunes     = 700
)

// SystemInstruction sets the writer persona and the output format the parser
// relies on.
var SystemInstruction = strings.Join([]string{
	"Sen bir elektrik mühendisliği stajyerinin staj defterini yazan yardımcısın.",
	"Birinci tekil şahıs, geçmiş zaman ve resmi ama doğal bir Türkçe kullan.",
	"Yanıtın ilk satırı mutlaka \"" + TitleMarker + " <kısa başlık>\" biçiminde olsun.",
	"Ardından boş bir satır bırakıp 3-5 paragraflık gövde metnini yaz; paragrafları boş satırla ayır.",
	"Gün için bir görsel verildiyse metnin sonunda \"" + CaptionMarker + " <tek cümlelik açıklama>\" satırı ekle.",
	"Markdown, madde işareti veya HTML kullanma. Önceki günlerde anlatılan işleri tekrar etme.",
}, "\n")

// Request is one generation call.
type Request struct {
	System string
	User   string
}

// SelectContext returns the saved days before target, oldest first, keeping
// only the last window entries. Drafts never appear here.
func SelectContext(days []dm.DayEntry, target int, window int) []dm.DayEntry {
	if window <= 0 {
		window = DefaultContextWindow
	}
	var picked []dm.DayEntry
	for _, d := range days {
		if d.IsSaved && d.DayNumber < target {
			picked = append(picked, d)
		}
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].DayNumber < picked[j].DayNumber })
	if len(picked) > window {
		picked = picked[len(picked)-window:]
	}
	return picked
}

// BuildRequest assembles the prompt for target using the saved history in days.
func BuildRequest(profile dm.StudentProfile, target dm.DayEntry, days []dm.DayEntry, window int) Request {
	var b strings.Builder

	b.WriteString("Stajyer bilgileri:\n")
	writeField(&b, "Ad Soyad", profile.Name)
	writeField(&b, "Firma", profile.Company)
	writeField(&b, "Bölüm", profile.Department)
	writeField(&b, "Alan", profile.Field)

	fmt.Fprintf(&b, "\nYazılacak gün: %d. gün (%s)\n", target.DayNumber, target.Date)
	fmt.Fprintf(&b, "Kategori: %s\n", target.Category.Label())
	fmt.Fprintf(&b, "Konu: %s\n", target.SpecificTopic)
	if target.HasImage() {
		if target.ImageCaption != "" {
			fmt.Fprintf(&b, "Seçilen görsel: %s\n", target.ImageCaption)
		} else {
			b.WriteString("Bu güne bir görsel eklendi; metin görsele atıf yapsın.\n")
		}
	}
	if dir := strings.TrimSpace(target.CustomDirective); dir != "" {
		fmt.Fprintf(&b, "Ek talimat: %s\n", dir)
	}

	prev := SelectContext(days, target.DayNumber, window)
	if len(prev) > 0 {
		b.WriteString("\nÖnceki kaydedilmiş günler (tekrar etme, devamlılığı koru):\n")
		for _, d := range prev {
			title := d.WorkTitle
			if title == "" {
				title = d.SpecificTopic
			}
			fmt.Fprintf(&b, "- %d. gün (%s) %s: %s\n", d.DayNumber, d.Date, title,
				utils.TruncateRunes(utils.CollapseSpaces(d.Content), contextBodyRunes))
		}
	}

	return Request{System: SystemInstruction, User: b.String()}
}

func writeField(b *strings.Builder, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}
