// Package width computes terminal display width and shrinks text to fit a
// target column budget without breaking grapheme clusters or exceeding the
// width the renderer will actually draw.
package width

import (
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// DisplayWidth returns the number of terminal columns text occupies once
// normalized to NFC and segmented into grapheme clusters. Combining marks
// that attach to a base rune contribute zero columns; East-Asian-Wide and
// most emoji contribute two.
func DisplayWidth(text string) int {
	normalized := norm.NFC.String(text)
	total := 0
	gr := uniseg.NewGraphemes(normalized)
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) == 0 {
			continue
		}
		total += runewidth.RuneWidth(runes[0])
	}
	return total
}

// graphemes splits NFC-normalized text into its grapheme clusters, which is
// the unit every shortening operation below slices on so multi-rune glyphs
// are never split in two.
func graphemes(text string) []string {
	normalized := norm.NFC.String(text)
	var out []string
	gr := uniseg.NewGraphemes(normalized)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func clusterWidth(cluster string) int {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return 0
	}
	return runewidth.RuneWidth(runes[0])
}

func widthOf(clusters []string) int {
	w := 0
	for _, c := range clusters {
		w += clusterWidth(c)
	}
	return w
}

func join(clusters []string) string {
	var b strings.Builder
	for _, c := range clusters {
		b.WriteString(c)
	}
	return b.String()
}

// Strategy selects how a region's text is reduced once it must shrink.
type Strategy int

const (
	StrategyAllOrNothing Strategy = iota
	StrategyTruncate
	StrategyAbbreviate
)

// AbbrevPosition selects which side of an ABBREVIATE region is preserved.
type AbbrevPosition int

const (
	PosLeft AbbrevPosition = iota
	PosMiddle
	PosRight
)

// ShorteningRegion marks a half-open [Start,End) span of grapheme-cluster
// indices in the original text that may be shrunk independently of the
// surrounding fixed text.
type ShorteningRegion struct {
	Start          int
	End            int
	Priority       int
	Strategy       Strategy
	AbbrevPosition AbbrevPosition
	FilepathMode   bool
}

const ellipsis = "…"

func (r ShorteningRegion) valid(n int) bool {
	return r.Start >= 0 && r.End >= r.Start && r.End <= n
}

func overlaps(a, b ShorteningRegion) bool {
	return a.Start < b.End && b.Start < a.End
}

// ReduceWidth shrinks text to fit targetWidth display columns, honoring the
// supplied shortening regions (or a single synthetic region covering the
// whole string if none are given). It never panics on malformed input and
// returns "" for an empty string or a non-positive target.
func ReduceWidth(text string, targetWidth int, regions []ShorteningRegion, defaultStrategy Strategy, defaultPosition AbbrevPosition) string {
	if text == "" || targetWidth <= 0 {
		return ""
	}

	normalized := norm.NFC.String(text)
	clusters := graphemes(normalized)
	n := len(clusters)

	if widthOf(clusters) <= targetWidth {
		return normalized
	}

	if len(regions) == 0 {
		regions = []ShorteningRegion{{Start: 0, End: n, Priority: 0, Strategy: defaultStrategy, AbbrevPosition: defaultPosition}}
	}

	valid := make([]ShorteningRegion, 0, len(regions))
	for _, r := range regions {
		if r.valid(n) {
			valid = append(valid, r)
		} else {
			// invalid regions (negative/reversed/out-of-bounds) are dropped
			// with a warning.
			slog.Warn("dropping invalid shortening region", slog.Int("start", r.Start), slog.Int("end", r.End))
		}
	}
	if len(valid) == 0 {
		valid = []ShorteningRegion{{Start: 0, End: n, Priority: 0, Strategy: defaultStrategy, AbbrevPosition: defaultPosition}}
	}

	hasOverlap := false
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			if overlaps(valid[i], valid[j]) {
				hasOverlap = true
			}
		}
	}

	var result []string
	if hasOverlap {
		result = reduceSequential(clusters, valid, targetWidth)
	} else {
		result = reducePriorityGrouped(clusters, valid, targetWidth)
	}

	if widthOf(result) > targetWidth {
		result = applyStrategy(result, 0, len(result), defaultStrategy, defaultPosition, false, targetWidth)
	}

	return join(result)
}

// reduceSequential applies each region's strategy one at a time in
// descending priority order, re-measuring the whole string after each step.
func reduceSequential(clusters []string, regions []ShorteningRegion, target int) []string {
	ordered := append([]ShorteningRegion(nil), regions...)
	sortByPriorityDesc(ordered)

	current := append([]string(nil), clusters...)
	offset := 0 // tracks cumulative shrink to remap original indices

	for _, r := range ordered {
		start := r.Start + offset
		end := r.End + offset
		if start < 0 {
			start = 0
		}
		if end > len(current) {
			end = len(current)
		}
		if start >= end {
			continue
		}
		if widthOf(current) <= target {
			break
		}
		before := len(current)
		current = replaceRegion(current, start, end, r, target)
		offset += len(current) - before
	}
	return current
}

// reducePriorityGrouped implements the walk-high-to-low shrink pass followed
// by a low-to-high restoration pass described for the non-overlapping case.
func reducePriorityGrouped(clusters []string, regions []ShorteningRegion, target int) []string {
	ordered := append([]ShorteningRegion(nil), regions...)
	sortByStartAsc(ordered)

	segments := buildSegments(clusters, ordered)

	levels := distinctPrioritiesDesc(ordered)
	for _, level := range levels {
		if totalWidth(segments) <= target {
			break
		}
		for i := range segments {
			if !segments[i].isRegion || segments[i].region.Priority != level {
				continue
			}
			excess := totalWidth(segments) - target
			if excess <= 0 {
				break
			}
			want := widthOf(segments[i].clusters) - excess
			if want < 0 {
				want = 0
			}
			segments[i].clusters = applyStrategy(segments[i].clusters, 0, len(segments[i].clusters), segments[i].region.Strategy, segments[i].region.AbbrevPosition, segments[i].region.FilepathMode, want)
		}
	}

	restoreLevels := distinctPrioritiesAsc(ordered)
	for _, level := range restoreLevels {
		for i := range segments {
			if !segments[i].isRegion || segments[i].region.Priority != level {
				continue
			}
			spare := target - totalWidth(segments)
			if spare <= 0 {
				break
			}
			original := segments[i].original
			currentWidth := widthOf(segments[i].clusters)
			originalWidth := widthOf(original)
			if currentWidth >= originalWidth {
				continue
			}
			wantWidth := currentWidth + spare
			if wantWidth >= originalWidth {
				segments[i].clusters = append([]string(nil), original...)
			} else {
				segments[i].clusters = applyStrategy(original, 0, len(original), segments[i].region.Strategy, segments[i].region.AbbrevPosition, segments[i].region.FilepathMode, wantWidth)
			}
		}
	}

	var out []string
	for _, s := range segments {
		out = append(out, s.clusters...)
	}
	return out
}

type segment struct {
	isRegion bool
	region   ShorteningRegion
	clusters []string
	original []string
}

func buildSegments(clusters []string, regions []ShorteningRegion) []segment {
	var segs []segment
	pos := 0
	for _, r := range regions {
		if r.Start > pos {
			segs = append(segs, segment{isRegion: false, clusters: clusters[pos:r.Start]})
		}
		region := append([]string(nil), clusters[r.Start:r.End]...)
		segs = append(segs, segment{isRegion: true, region: r, clusters: append([]string(nil), region...), original: region})
		pos = r.End
	}
	if pos < len(clusters) {
		segs = append(segs, segment{isRegion: false, clusters: clusters[pos:]})
	}
	return segs
}

func totalWidth(segs []segment) int {
	w := 0
	for _, s := range segs {
		w += widthOf(s.clusters)
	}
	return w
}

func distinctPrioritiesDesc(regions []ShorteningRegion) []int {
	seen := map[int]bool{}
	var levels []int
	for _, r := range regions {
		if !seen[r.Priority] {
			seen[r.Priority] = true
			levels = append(levels, r.Priority)
		}
	}
	sortIntsDesc(levels)
	return levels
}

func distinctPrioritiesAsc(regions []ShorteningRegion) []int {
	levels := distinctPrioritiesDesc(regions)
	sortIntsAsc(levels)
	return levels
}

func sortIntsDesc(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] < xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func sortIntsAsc(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func sortByPriorityDesc(regions []ShorteningRegion) {
	for i := 1; i < len(regions); i++ {
		for j := i; j > 0 && regions[j-1].Priority < regions[j].Priority; j-- {
			regions[j-1], regions[j] = regions[j], regions[j-1]
		}
	}
}

func sortByStartAsc(regions []ShorteningRegion) {
	for i := 1; i < len(regions); i++ {
		for j := i; j > 0 && regions[j-1].Start > regions[j].Start; j-- {
			regions[j-1], regions[j] = regions[j], regions[j-1]
		}
	}
}

// replaceRegion shrinks clusters[start:end] in place within the whole
// sequence, returning the full updated sequence.
func replaceRegion(clusters []string, start, end int, r ShorteningRegion, target int) []string {
	fixedWidth := widthOf(clusters[:start]) + widthOf(clusters[end:])
	budget := target - fixedWidth
	if budget < 0 {
		budget = 0
	}
	shrunk := applyStrategy(clusters[start:end], 0, end-start, r.Strategy, r.AbbrevPosition, r.FilepathMode, budget)
	out := make([]string, 0, start+len(shrunk)+(len(clusters)-end))
	out = append(out, clusters[:start]...)
	out = append(out, shrunk...)
	out = append(out, clusters[end:]...)
	return out
}

// applyStrategy reduces clusters[start:end] to fit within want display
// columns using the given strategy, returning the replacement slice for
// that span (region bounds are always 0..len(clusters) by the time this is
// called from the segment-based paths; replaceRegion passes sub-slices).
func applyStrategy(clusters []string, start, end int, strategy Strategy, pos AbbrevPosition, filepathMode bool, want int) []string {
	region := clusters[start:end]
	if filepathMode {
		return shortenFilepath(region, want)
	}
	if widthOf(region) <= want {
		return append([]string(nil), region...)
	}
	switch strategy {
	case StrategyAllOrNothing:
		// the whole region no longer fits: delete it entirely
		return nil
	case StrategyTruncate:
		return truncateTo(region, want)
	case StrategyAbbreviate:
		return abbreviateTo(region, want, pos)
	default:
		return truncateTo(region, want)
	}
}

func truncateTo(clusters []string, want int) []string {
	if want <= 0 {
		return nil
	}
	w := 0
	out := make([]string, 0, len(clusters))
	for _, c := range clusters {
		cw := clusterWidth(c)
		if w+cw > want {
			break
		}
		out = append(out, c)
		w += cw
	}
	return out
}

func abbreviateTo(clusters []string, want int, pos AbbrevPosition) []string {
	if want <= 0 {
		return nil
	}
	ellipsisW := clusterWidth(ellipsis)
	if want <= ellipsisW {
		return []string{ellipsis}
	}
	budget := want - ellipsisW

	switch pos {
	case PosLeft: // keep the tail
		tail := takeFromEnd(clusters, budget)
		return append([]string{ellipsis}, tail...)
	case PosRight: // keep the head
		head := takeFromStart(clusters, budget)
		return append(append([]string(nil), head...), ellipsis)
	default: // PosMiddle: keep both ends, odd column biased left
		leftBudget := (budget + 1) / 2
		rightBudget := budget - leftBudget
		head := takeFromStart(clusters, leftBudget)
		tail := takeFromEnd(clusters, rightBudget)
		out := append([]string(nil), head...)
		out = append(out, ellipsis)
		out = append(out, tail...)
		return out
	}
}

func takeFromStart(clusters []string, budget int) []string {
	w := 0
	var out []string
	for _, c := range clusters {
		cw := clusterWidth(c)
		if w+cw > budget {
			break
		}
		out = append(out, c)
		w += cw
	}
	return out
}

func takeFromEnd(clusters []string, budget int) []string {
	w := 0
	var out []string
	for i := len(clusters) - 1; i >= 0; i-- {
		cw := clusterWidth(clusters[i])
		if w+cw > budget {
			break
		}
		out = append([]string{clusters[i]}, out...)
		w += cw
	}
	return out
}

// shortenFilepath implements the filepath_mode override: collapse whole
// directory levels to "…" from innermost outward, only abbreviating the
// filename itself as a last resort.
func shortenFilepath(clusters []string, want int) []string {
	full := join(clusters)
	sep := "/"
	if !strings.Contains(full, "/") && strings.Contains(full, "\\") {
		sep = "\\"
	}
	parts := strings.Split(full, sep)
	if len(parts) <= 1 {
		return abbreviateTo(clusters, want, PosMiddle)
	}

	filename := parts[len(parts)-1]
	dirs := append([]string(nil), parts[:len(parts)-1]...)

	assemble := func(dirs []string, filename string) string {
		return strings.Join(append(dirs, filename), sep)
	}

	current := assemble(dirs, filename)
	if DisplayWidth(current) <= want {
		return graphemes(current)
	}

	// collapse innermost (closest to filename) directory levels first
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i] == "…" {
			continue
		}
		dirs[i] = "…"
		current = assemble(dirs, filename)
		if DisplayWidth(current) <= want {
			return graphemes(current)
		}
	}

	// only "…/filename" remains too wide: abbreviate the filename itself
	prefix := "…" + sep
	prefixW := DisplayWidth(prefix)
	remaining := want - prefixW
	shortFilename := join(abbreviateTo(graphemes(filename), remaining, PosMiddle))
	return graphemes(prefix + shortFilename)
}
