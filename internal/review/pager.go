package review

import (
	"cmp"
	"slices"
	"strings"

	"news_review/internal/domain"
)

const DefaultPageSize = 5

// Section groups the revealed articles of one author.
type Section struct {
	Author   string                       `json:"author"`
	Articles []domain.ArticleDisplayModel `json:"articles"`
}

// Pager reveals a fully loaded article list page by page, keeping the
// revealed records grouped by author. Groups are sorted by author ignoring
// case, and each group's articles by name.
type Pager struct {
	pageSize int
	all      []domain.ArticleDisplayModel
	page     int
	revealed int
	hasMore  bool
	sections []Section
}

func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize, hasMore: true}
}

// Reset replaces the underlying list and clears every revealed page.
func (p *Pager) Reset(all []domain.ArticleDisplayModel) {
	p.all = all
	p.page = 0
	p.revealed = 0
	p.hasMore = true
	p.sections = nil
}

// NextPage reveals the next page and reports how many records it added.
// It is a no-op once everything is revealed.
func (p *Pager) NextPage() int {
	if !p.hasMore {
		return 0
	}

	start := p.page * p.pageSize
	if start >= len(p.all) {
		p.hasMore = false
		return 0
	}
	end := min(start+p.pageSize, len(p.all))

	groups := make(map[string][]domain.ArticleDisplayModel, len(p.sections))
	for _, s := range p.sections {
		groups[s.Author] = s.Articles
	}
	for _, a := range p.all[start:end] {
		groups[a.Author] = append(groups[a.Author], a)
	}

	sections := make([]Section, 0, len(groups))
	for author, articles := range groups {
		slices.SortStableFunc(articles, func(a, b domain.ArticleDisplayModel) int {
			return cmp.Compare(a.Name, b.Name)
		})
		sections = append(sections, Section{Author: author, Articles: articles})
	}
	slices.SortFunc(sections, func(a, b Section) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author)),
			cmp.Compare(a.Author, b.Author),
		)
	})

	p.sections = sections
	p.page++
	p.revealed = end
	p.hasMore = end < len(p.all)

	return end - start
}

func (p *Pager) HasMore() bool {
	return p.hasMore
}

func (p *Pager) Revealed() int {
	return p.revealed
}

func (p *Pager) Total() int {
	return len(p.all)
}

// Sections returns a copy of the revealed author groups.
func (p *Pager) Sections() []Section {
	out := make([]Section, len(p.sections))
	for i, s := range p.sections {
		out[i] = Section{Author: s.Author, Articles: slices.Clone(s.Articles)}
	}
	return out
}
