package inline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/md2word/model"
)

var breakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

// pattern is one inline span rule. Group 1 is the span text. When noAdjacent
// is set the match is rejected if the byte just before or after it equals
// that byte, so "*a*" does not match inside "**a**".
type pattern struct {
	re         *regexp.Regexp
	format     model.Format
	noAdjacent byte
}

// patterns are tried in this order; the order breaks ties between equal
// matches.
var patterns = []pattern{
	{re: regexp.MustCompile(`\*\*\*(.*?)\*\*\*`), format: model.FormatBold | model.FormatItalic},
	{re: regexp.MustCompile(`___(.*?)___`), format: model.FormatBold | model.FormatItalic},
	{re: regexp.MustCompile(`\*\*(.*?)\*\*`), format: model.FormatBold},
	{re: regexp.MustCompile(`__(.*?)__`), format: model.FormatBold},
	{re: regexp.MustCompile(`\*([^*\n]+?)\*`), format: model.FormatItalic, noAdjacent: '*'},
	{re: regexp.MustCompile(`_([^_\n]+?)_`), format: model.FormatItalic, noAdjacent: '_'},
	{re: regexp.MustCompile(`<u>(.*?)</u>`), format: model.FormatUnderline},
	{re: regexp.MustCompile(`~~(.*?)~~`), format: model.FormatStrike},
	{re: regexp.MustCompile("`([^`\n]+)`"), format: model.FormatCode},
	{re: regexp.MustCompile(`\$([^$\n]+?)\$`), format: model.FormatMath},
}

// markupPatterns detect whether text carries any inline markup.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*\*.*?\*\*\*`),
	regexp.MustCompile(`\*\*.*?\*\*`),
	regexp.MustCompile(`\*.*?\*`),
	regexp.MustCompile(`___.*?___`),
	regexp.MustCompile(`__.*?__`),
	regexp.MustCompile(`_.*?_`),
	regexp.MustCompile(`<u>.*?</u>`),
	regexp.MustCompile(`~~.*?~~`),
	regexp.MustCompile("`.*?`"),
	regexp.MustCompile(`<br\s*/?>`),
	regexp.MustCompile(`\$.*?\$`),
}

// match is a candidate span in a segment, in byte offsets.
type match struct {
	start, end int
	text       string
	format     model.Format
	order      int
}

// Parse splits text on <br> tags and parses inline emphasis in each
// segment. Segments are joined by break runs. Text without markup comes
// back as a single plain run; empty runs are dropped.
func Parse(text string) []model.Run {
	segments := breakPattern.Split(text, -1)
	var runs []model.Run
	for i, seg := range segments {
		if i > 0 {
			runs = append(runs, model.BreakRun())
		}
		runs = append(runs, parseSegment(seg)...)
	}
	return runs
}

// HasMarkup reports whether text contains any emphasis marker or <br> tag.
func HasMarkup(text string) bool {
	for _, re := range markupPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func parseSegment(seg string) []model.Run {
	if seg == "" {
		return nil
	}

	var runs []model.Run
	pos := 0
	for _, m := range resolve(findAll(seg)) {
		if pos < m.start {
			runs = append(runs, model.Run{Text: seg[pos:m.start]})
		}
		if m.text != "" {
			runs = append(runs, model.Run{Text: m.text, Format: m.format})
		}
		pos = m.end
	}
	if pos < len(seg) {
		runs = append(runs, model.Run{Text: seg[pos:]})
	}
	return runs
}

// findAll collects the non-overlapping matches of every pattern.
func findAll(seg string) []match {
	var all []match
	for order, p := range patterns {
		if p.noAdjacent == 0 {
			for _, loc := range p.re.FindAllStringSubmatchIndex(seg, -1) {
				all = append(all, match{loc[0], loc[1], seg[loc[2]:loc[3]], p.format, order})
			}
			continue
		}
		for start := 0; start < len(seg); {
			loc := p.re.FindStringSubmatchIndex(seg[start:])
			if loc == nil {
				break
			}
			s, e := start+loc[0], start+loc[1]
			if (s > 0 && seg[s-1] == p.noAdjacent) || (e < len(seg) && seg[e] == p.noAdjacent) {
				start = s + 1
				continue
			}
			all = append(all, match{s, e, seg[start+loc[2] : start+loc[3]], p.format, order})
			start = e
		}
	}
	return all
}

// resolve drops overlapping matches. Longer matches win; between equal
// lengths the earlier start wins, then the earlier pattern. The survivors
// are returned in source order.
func resolve(all []match) []match {
	sort.SliceStable(all, func(i, j int) bool {
		li, lj := all[i].end-all[i].start, all[j].end-all[j].start
		if li != lj {
			return li > lj
		}
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].order < all[j].order
	})

	var kept []match
	for _, m := range all {
		overlaps := false
		for _, k := range kept {
			if m.start < k.end && m.end > k.start {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}

// Formatter applies quote conversion and inline parsing.
type Formatter struct {
	ConvertQuotes bool
}

// Format converts quotes when enabled, then parses inline markup.
func (f Formatter) Format(text string) []model.Run {
	if f.ConvertQuotes {
		text = ConvertQuotes(text)
	}
	return Parse(text)
}

// Plain returns text as one unformatted run after optional quote
// conversion.
func (f Formatter) Plain(text string) []model.Run {
	if f.ConvertQuotes {
		text = ConvertQuotes(text)
	}
	return model.PlainRuns(text)
}

// Strip returns text with inline markup removed.
func Strip(text string) string {
	return strings.ReplaceAll(model.TextOf(Parse(text)), "\n", " ")
}
