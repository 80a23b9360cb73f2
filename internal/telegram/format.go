package telegram

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/ports"
)

func pairText(p pair) string {
	return fmt.Sprintf("🗣 %s → %s", p.source, p.target)
}

func outcomeText(out domain.Outcome) string {
	var b strings.Builder
	if out.Transcript != "" {
		fmt.Fprintf(&b, "🎙 %s: %s\n", out.Source, out.Transcript)
	}
	if out.Translation != "" {
		fmt.Fprintf(&b, "🌍 %s: %s\n", out.Target, out.Translation)
	}
	if m := out.Metrics; m != nil && out.Succeeded() {
		fmt.Fprintf(&b, "📊 %s · %s · %d%%\n", m.Complexity, m.Sentiment, m.Confidence)
	}
	b.WriteString(out.Message)
	return b.String()
}

func historyText(recs []ports.Recording) string {
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "• %s, %s → %s\n  %s\n  %s\n",
			humanize.Time(r.CreatedAt), r.SourceLanguage, r.TargetLanguage, r.OriginalText, r.TranslatedText)
	}
	if b.Len() == 0 {
		return "No translations yet."
	}
	return b.String()
}

func statsText(st *ports.UserStats) string {
	if st == nil {
		return "No translations yet."
	}
	return fmt.Sprintf("Translations: %s\nLast pair: %s → %s\nLast active: %s",
		humanize.Comma(int64(st.TotalTranslations)),
		st.FavoriteSourceLanguage, st.FavoriteTargetLanguage,
		humanize.Time(st.LastActive))
}
