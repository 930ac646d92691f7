package mealplan

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

/* =================================================================================
							EVIDENCE ANNOTATION
	Nutritional reasoning that hedges ("may help", "some studies suggest")
	gets backed by citation URLs from the search service. Annotation is
	best-effort: search failures never fail the plan.
=================================================================================*/

const (
	evidenceMaxResults    = 2
	evidenceSearchTimeout = 10 * time.Second
)

// hedgePhrases mark reasoning that asserts a health effect without citing
// evidence. Matching is case-insensitive substring search.
var hedgePhrases = []string{
	"may help",
	"could benefit",
	"might improve",
	"some studies suggest",
	"research indicates",
	"has been shown",
	"may reduce",
	"can improve",
}

// NeedsEvidence reports whether the reasoning text contains a hedge phrase
// and therefore warrants a citation lookup.
func NeedsEvidence(reasoning string) bool {
	lowered := strings.ToLower(reasoning)
	for _, phrase := range hedgePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// AnnotateDay attaches scientific sources to every hedging item of a freshly
// generated day. Items are looked up concurrently; the day is returned with
// whatever sources resolved in time.
func (p *Pipeline) AnnotateDay(ctx context.Context, day *GeneratedDay) {
	items := make([]*PlanItem, 0, len(day.Meals)+len(day.Snacks))
	for i := range day.Meals {
		items = append(items, &day.Meals[i])
	}
	for i := range day.Snacks {
		items = append(items, &day.Snacks[i])
	}
	p.annotateItems(ctx, items)
}

func (p *Pipeline) annotateItems(ctx context.Context, items []*PlanItem) {
	if p.evidence == nil || !p.evidence.Configured() {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		if !NeedsEvidence(item.NutritionalReasoning) {
			continue
		}
		item := item
		g.Go(func() error {
			item.ScientificSources = p.lookupSources(gctx, item.Name, item.NutritionalReasoning)
			return nil
		})
	}
	// Workers only ever return nil; Wait is for joining, not errors.
	_ = g.Wait()
}

// lookupSources queries for evidence backing a single item's reasoning. On
// any failure it returns the empty slice so the item simply ships without
// citations.
func (p *Pipeline) lookupSources(ctx context.Context, itemName, reasoning string) []string {
	ctx, cancel := context.WithTimeout(ctx, evidenceSearchTimeout)
	defer cancel()

	query := "scientific evidence " + reasoning + " nutrition"
	results, err := p.evidence.Search(ctx, query, evidenceMaxResults)
	if err != nil {
		log.Warn().Err(err).Str("item", itemName).Msg("Evidence search failed, continuing without sources")
		return []string{}
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		if r.URL != "" {
			sources = append(sources, r.URL)
		}
	}
	return sources
}
