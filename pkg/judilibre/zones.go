package judilibre

import (
	"github.com/tidwall/gjson"
)

// ZoneText is one delimited span of a decision's text.
type ZoneText struct {
	Zone  string `json:"zone"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// ExtractZones slices the decision text along its zones
// ({"zones": {"motivations": [{"start": 160, "end": 1226}]}}). Offsets count
// characters, not bytes, and are clamped to the text; empty spans are
// skipped.
func ExtractZones(decision []byte) []ZoneText {
	text := []rune(gjson.GetBytes(decision, "text").String())

	var out []ZoneText
	gjson.GetBytes(decision, "zones").ForEach(func(name, spans gjson.Result) bool {
		spans.ForEach(func(_, span gjson.Result) bool {
			start := clamp(int(span.Get("start").Int()), 0, len(text))
			end := clamp(int(span.Get("end").Int()), start, len(text))
			if start == end {
				return true
			}
			out = append(out, ZoneText{
				Zone:  name.String(),
				Start: start,
				End:   end,
				Text:  string(text[start:end]),
			})
			return true
		})
		return true
	})
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
