// Package review implements the reviewer selection/approval workflow and the
// paged article listing.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"news_review/internal/connectivity"
	"news_review/internal/domain"
)

type ArticleStore interface {
	FetchAll(ctx context.Context) ([]domain.ArticleDisplayModel, error)
	FetchByAuthor(ctx context.Context, author string) ([]domain.ArticleDisplayModel, error)
	AddApproval(ctx context.Context, articleID, reviewer string) (bool, error)
}

// Workflow keeps the current selection and the loaded listing for one user.
// Approvals are local only; the next sync propagates them.
type Workflow struct {
	store   ArticleStore
	network connectivity.Provider
	logger  *slog.Logger

	mu       sync.Mutex
	session  domain.Session
	selected map[string]struct{}
	authored []domain.ArticleDisplayModel
	pager    *Pager
}

func NewWorkflow(store ArticleStore, network connectivity.Provider, pageSize int, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:    store,
		network:  network,
		logger:   logger.With("component", "review"),
		selected: make(map[string]struct{}),
		pager:    NewPager(pageSize),
	}
}

// Toggle flips the selection of articleID and reports whether it is now selected.
func (w *Workflow) Toggle(articleID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.selected[articleID]; ok {
		delete(w.selected, articleID)
		return false
	}
	w.selected[articleID] = struct{}{}
	return true
}

func (w *Workflow) IsSelected(articleID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.selected[articleID]
	return ok
}

// Selected returns the selected ids in ascending order.
func (w *Workflow) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedLocked()
}

func (w *Workflow) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.selected)
}

// Load refreshes the listing for session. Authors get their own articles,
// reviewers get the full list with the first page revealed.
func (w *Workflow) Load(ctx context.Context, session domain.Session) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLocked(ctx, session)
}

func (w *Workflow) loadLocked(ctx context.Context, session domain.Session) error {
	w.session = session
	clear(w.selected)

	if session.Role == domain.RoleAuthor {
		articles, err := w.store.FetchByAuthor(ctx, session.Username)
		if err != nil {
			return fmt.Errorf("load author articles: %w", err)
		}
		w.authored = articles
		w.pager.Reset(nil)
		return nil
	}

	all, err := w.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	w.authored = nil
	w.pager.Reset(all)
	w.pager.NextPage()
	return nil
}

// NextPage reveals the next reviewer page. Authors have no paging.
func (w *Workflow) NextPage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Role != domain.RoleReviewer {
		return 0
	}
	return w.pager.NextPage()
}

func (w *Workflow) HasMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Role == domain.RoleReviewer && w.pager.HasMore()
}

// Shown reports how many listed articles are revealed out of the total.
// For authors every listed article counts as revealed.
func (w *Workflow) Shown() (revealed, total int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Role == domain.RoleAuthor {
		return len(w.authored), len(w.authored)
	}
	return w.pager.Revealed(), w.pager.Total()
}

func (w *Workflow) Sections() []Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pager.Sections()
}

func (w *Workflow) AuthorArticles() []domain.ArticleDisplayModel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.authored)
}

// ApproveSelected adds the current user as approver of every selected
// article, then clears the selection and reloads the listing. It returns
// the number of approvals that were new.
func (w *Workflow) ApproveSelected(ctx context.Context) (int, error) {
	if !w.network.IsReachable() {
		return 0, domain.ErrNoConnection
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.Username == "" {
		return 0, domain.ErrNotLoggedIn
	}

	ids := w.selectedLocked()
	if len(ids) == 0 {
		return 0, domain.ErrEmptySelection
	}

	reviewer := w.session.Username
	var (
		added int
		errs  []error
	)
	for _, id := range ids {
		ok, err := w.store.AddApproval(ctx, id, reviewer)
		if err != nil {
			w.logger.Warn("failed to add approval", "article_id", id, "reviewer", reviewer, "error", err)
			errs = append(errs, fmt.Errorf("approve %s: %w", id, err))
			continue
		}
		if ok {
			added++
		}
	}

	w.logger.Info("approved articles", "reviewer", reviewer, "selected", len(ids), "added", added)

	if err := w.loadLocked(ctx, w.session); err != nil {
		errs = append(errs, err)
	}
	return added, errors.Join(errs...)
}

func (w *Workflow) selectedLocked() []string {
	ids := make([]string, 0, len(w.selected))
	for id := range w.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
