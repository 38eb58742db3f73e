package review

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_review/internal/domain"
)

// catalogue builds n articles ordered by author the way the store returns them.
func catalogue(n int) []domain.ArticleDisplayModel {
	authors := []string{"Alice", "Bob", "Charlie", "Diana"}
	out := make([]domain.ArticleDisplayModel, 0, n)
	for i := range n {
		author := authors[i*len(authors)/n]
		out = append(out, domain.ArticleDisplayModel{
			ArticleID: fmt.Sprintf("ART%03d", i+1),
			Author:    author,
			Name:      fmt.Sprintf("Name %02d", n-i),
		})
	}
	return out
}

func revealedIDs(sections []Section) []string {
	var ids []string
	for _, s := range sections {
		for _, a := range s.Articles {
			ids = append(ids, a.ArticleID)
		}
	}
	return ids
}

func TestPager_PagesOfFive(t *testing.T) {
	p := NewPager(5)
	p.Reset(catalogue(12))

	assert.Equal(t, 5, p.NextPage())
	assert.True(t, p.HasMore())
	assert.Equal(t, 5, p.Revealed())

	assert.Equal(t, 5, p.NextPage())
	assert.Equal(t, 2, p.NextPage())
	assert.False(t, p.HasMore())
	assert.Equal(t, 12, p.Revealed())

	assert.Equal(t, 0, p.NextPage())
	assert.Len(t, revealedIDs(p.Sections()), 12)
}

func TestPager_GroupsAndSorts(t *testing.T) {
	p := NewPager(5)
	p.Reset([]domain.ArticleDisplayModel{
		{ArticleID: "A1", Author: "Alice", Name: "Zebra"},
		{ArticleID: "A2", Author: "Alice", Name: "Apple"},
		{ArticleID: "B1", Author: "Bob", Name: "Music"},
		{ArticleID: "C1", Author: "Carol", Name: "Travel"},
		{ArticleID: "C2", Author: "Carol", Name: "Art"},
		{ArticleID: "C3", Author: "Carol", Name: "Food"},
	})

	p.NextPage()
	sections := p.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, "Alice", sections[0].Author)
	assert.Equal(t, []string{"A2", "A1"}, revealedIDs(sections[:1]))
	assert.Equal(t, []string{"C2", "C1"}, revealedIDs(sections[2:]))

	p.NextPage()
	sections = p.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, []string{"C2", "C3", "C1"}, revealedIDs(sections[2:]))
	assert.False(t, p.HasMore())
}

func TestPager_AuthorOrderIgnoresCase(t *testing.T) {
	p := NewPager(5)
	p.Reset([]domain.ArticleDisplayModel{
		{ArticleID: "A1", Author: "alice"},
		{ArticleID: "B1", Author: "Bob"},
		{ArticleID: "C1", Author: "carol"},
	})
	p.NextPage()

	var authors []string
	for _, s := range p.Sections() {
		authors = append(authors, s.Author)
	}
	assert.Equal(t, []string{"alice", "Bob", "carol"}, authors)
}

func TestPager_EmptyList(t *testing.T) {
	p := NewPager(5)
	p.Reset(nil)

	assert.True(t, p.HasMore())
	assert.Equal(t, 0, p.NextPage())
	assert.False(t, p.HasMore())
	assert.Empty(t, p.Sections())
}

func TestPager_ExactMultiple(t *testing.T) {
	p := NewPager(5)
	p.Reset(catalogue(10))

	p.NextPage()
	p.NextPage()
	assert.False(t, p.HasMore())
	assert.Equal(t, 10, p.Total())
}

func TestPager_ResetClearsSections(t *testing.T) {
	p := NewPager(0)
	p.Reset(catalogue(7))
	p.NextPage()

	p.Reset(catalogue(3))
	assert.Empty(t, p.Sections())
	assert.Equal(t, 3, p.NextPage())
}

func TestPager_SectionsAreCopies(t *testing.T) {
	p := NewPager(5)
	p.Reset(catalogue(3))
	p.NextPage()

	sections := p.Sections()
	sections[0].Articles[0].Name = "changed"

	assert.NotEqual(t, "changed", p.Sections()[0].Articles[0].Name)
}
