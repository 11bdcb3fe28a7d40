package journal

import "testing"

func TestParseResponseTitleAndBody(t *testing.T) {
	got := ParseResponse("ÇALIŞMA RAPORU: Pano Montajı\n\nBugün...")
	if got.WorkTitle != "Pano Montajı" {
		t.Fatalf("WorkTitle: want=%q got=%q", "Pano Montajı", got.WorkTitle)
	}
	if got.Body != "Bugün..." {
		t.Fatalf("Body: want=%q got=%q", "Bugün...", got.Body)
	}
	if got.VisualCaption != nil {
		t.Fatalf("VisualCaption: want=nil got=%q", *got.VisualCaption)
	}
	if !got.HasTitle {
		t.Fatalf("HasTitle: want=true")
	}
}

func TestParseResponseCaption(t *testing.T) {
	raw := "ÇALIŞMA RAPORU: Topraklama Ölçümü\n\nİlk paragraf.\n\nİkinci paragraf.\n\nGÖRSEL AÇIKLAMASI: Ölçüm cihazı ve\ntopraklama barası."
	got := ParseResponse(raw)
	if got.Body != "İlk paragraf.\n\nİkinci paragraf." {
		t.Fatalf("Body: got=%q", got.Body)
	}
	if got.VisualCaption == nil || *got.VisualCaption != "Ölçüm cihazı ve\ntopraklama barası." {
		t.Fatalf("VisualCaption: got=%v", got.VisualCaption)
	}
}

func TestParseResponseMarkerVariants(t *testing.T) {
	cases := []string{
		"**ÇALIŞMA RAPORU:** Kablo Çekimi\nGövde",
		"  çalışma raporu :   Kablo Çekimi  \nGövde",
		"## CALISMA  RAPORU: Kablo Çekimi\nGövde",
		"Çalişma Raporu: Kablo Çekimi\r\nGövde",
	}
	for _, raw := range cases {
		got := ParseResponse(raw)
		if got.WorkTitle != "Kablo Çekimi" || got.Body != "Gövde" {
			t.Fatalf("ParseResponse(%q): got title=%q body=%q", raw, got.WorkTitle, got.Body)
		}
	}
}

func TestParseResponseWithoutMarkers(t *testing.T) {
	got := ParseResponse("  Sadece gövde metni.\n\n\n\nİkinci paragraf.  ")
	if got.WorkTitle != DefaultTitle || got.HasTitle {
		t.Fatalf("WorkTitle: want default got=%q has=%v", got.WorkTitle, got.HasTitle)
	}
	if got.Body != "Sadece gövde metni.\n\nİkinci paragraf." {
		t.Fatalf("Body: got=%q", got.Body)
	}
	if got.VisualCaption != nil {
		t.Fatalf("VisualCaption: want=nil")
	}
}

func TestParseResponseIsIdempotentOnBody(t *testing.T) {
	raw := "ÇALIŞMA RAPORU: Pano\n\nSaat 09:00 itibarıyla işe başladık.\n\nGÖRSEL AÇIKLAMASI: Pano iç görünümü"
	first := ParseResponse(raw)
	second := ParseResponse(first.Body)
	if second.Body != first.Body {
		t.Fatalf("Body changed on reparse: want=%q got=%q", first.Body, second.Body)
	}
	if second.HasTitle || second.VisualCaption != nil {
		t.Fatalf("reparse produced spurious markers: %+v", second)
	}
}

func TestParseResponseFlattensHTML(t *testing.T) {
	got := ParseResponse("<p>ÇALIŞMA RAPORU: Devre</p><p>Bugün <b>kumanda</b> devresi kurduk.</p>")
	if got.WorkTitle != "Devre" {
		t.Fatalf("WorkTitle: want=%q got=%q", "Devre", got.WorkTitle)
	}
	if got.Body != "Bugün kumanda devresi kurduk." {
		t.Fatalf("Body: got=%q", got.Body)
	}
}

func TestParseResponseEmptyCaptionIsNil(t *testing.T) {
	got := ParseResponse("Metin\nGÖRSEL AÇIKLAMASI:   ")
	if got.VisualCaption != nil {
		t.Fatalf("VisualCaption: want=nil got=%q", *got.VisualCaption)
	}
	if got.Body != "Metin" {
		t.Fatalf("Body: got=%q", got.Body)
	}
}

func TestParseResponseCaptionInsideParagraph(t *testing.T) {
	cases := []struct {
		raw     string
		body    string
		caption string
	}{
		{
			"ÇALIŞMA RAPORU: Pano\n\nBugün pano montajı yaptım. GÖRSEL AÇIKLAMASI: Pano iç görünüşü",
			"Bugün pano montajı yaptım.",
			"Pano iç görünüşü",
		},
		{
			"İlk paragraf.\n\nÖlçüm tamamlandı. **görsel  açıklaması:** Topraklama barası\nve ölçüm cihazı",
			"İlk paragraf.\n\nÖlçüm tamamlandı.",
			"Topraklama barası\nve ölçüm cihazı",
		},
		{
			"Saat 09:00 itibarıyla başladık. Gorsel Aciklamasi : Kablo kanalı",
			"Saat 09:00 itibarıyla başladık.",
			"Kablo kanalı",
		},
	}
	for _, tc := range cases {
		got := ParseResponse(tc.raw)
		if got.Body != tc.body {
			t.Fatalf("Body: want=%q got=%q", tc.body, got.Body)
		}
		if got.VisualCaption == nil || *got.VisualCaption != tc.caption {
			t.Fatalf("VisualCaption: want=%q got=%v", tc.caption, got.VisualCaption)
		}
	}
}
